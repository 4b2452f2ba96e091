package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/military-assets-api/internal/application/dto"
)

// InventoryReport datos del reporte imprimible del tablero.
type InventoryReport struct {
	GeneratedAt time.Time
	GeneratedBy string
	BaseID      string // vacío = todas las bases
	From        *time.Time
	To          *time.Time
	Rows        []dto.DashboardRowDTO
}

// ReportGenerator renderiza el reporte (implementación: infrastructure/pdf).
type ReportGenerator interface {
	GenerateInventoryReport(ctx context.Context, report InventoryReport) ([]byte, error)
}
