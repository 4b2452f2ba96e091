package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/military-assets-api/internal/application/audit"
	"github.com/jhoicas/military-assets-api/internal/application/dto"
)

// AuditHandler consulta del log de auditoría (solo admin).
type AuditHandler struct {
	uc *audit.QueryUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.QueryUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Log de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        user_id      query  string  false  "usuario"
// @Param        action       query  string  false  "CREATE_PURCHASE, LOGIN, ..."
// @Param        entity_type  query  string  false  "purchase, transfer, ..."
// @Param        start_date   query  string  false  "YYYY-MM-DD"
// @Param        end_date     query  string  false  "YYYY-MM-DD (incluido)"
// @Param        limit        query  int     false  "por defecto 100, máximo 500"
// @Success      200  {object}  dto.ListResponse[dto.AuditLogResponse]
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	var q dto.AuditLogQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidQuery(c)
	}
	items, err := h.uc.List(c.Context(), scope, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(items))
}
