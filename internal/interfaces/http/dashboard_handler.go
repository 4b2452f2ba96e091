package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/military-assets-api/internal/application/analytics"
	"github.com/jhoicas/military-assets-api/internal/application/dto"
)

// DashboardHandler maneja los endpoints del tablero de inventario.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve una fila por registro de inventario del alcance.
// GET /api/dashboard?base_id&asset_id&start_date&end_date
//
// Las columnas de movimientos (compras, entradas, salidas, asignado, gastado) se
// acotan a la ventana de fechas; los saldos son siempre los actuales.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	var q dto.DashboardQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidQuery(c)
	}
	rows, err := h.uc.Summary(c.Context(), scope, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(rows))
}

// GetMovementBreakdown GET /api/dashboard/movement-breakdown (base_id y asset_id obligatorios).
func (h *DashboardHandler) GetMovementBreakdown(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	var q dto.DashboardQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidQuery(c)
	}
	out, err := h.uc.MovementBreakdown(c.Context(), scope, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetReportPDF GET /api/dashboard/report.pdf con los mismos filtros que GetSummary.
func (h *DashboardHandler) GetReportPDF(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	var q dto.DashboardQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidQuery(c)
	}
	pdf, err := h.uc.ReportPDF(c.Context(), scope, q)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="inventario-%s.pdf"`, time.Now().Format("20060102")))
	return c.Send(pdf)
}
