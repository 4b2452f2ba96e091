package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardFilter filtro del tablero. BaseID ya viene resuelto por el alcance del llamador.
type DashboardFilter struct {
	BaseID  string
	AssetID string
	From    *time.Time
	To      *time.Time
}

// InventorySummaryRow resultado crudo por registro de inventario con los totales de
// movimientos dentro de la ventana de fechas.
type InventorySummaryRow struct {
	BaseID          string
	BaseName        string
	AssetID         string
	AssetName       string
	Category        string
	UnitOfMeasure   string
	OpeningBalance  decimal.Decimal
	CurrentQuantity decimal.Decimal
	ClosingBalance  decimal.Decimal
	TotalPurchases  decimal.Decimal
	TransfersIn     decimal.Decimal
	TransfersOut    decimal.Decimal
	TotalAssigned   decimal.Decimal
	TotalExpended   decimal.Decimal
}

// MovementTotals totales de compras y transferencias para un par (base, activo).
type MovementTotals struct {
	Purchases    decimal.Decimal
	TransfersIn  decimal.Decimal
	TransfersOut decimal.Decimal
}

// DashboardRepository consultas read-only del tablero.
type DashboardRepository interface {
	Summary(ctx context.Context, filter DashboardFilter) ([]InventorySummaryRow, error)
	MovementTotals(ctx context.Context, filter DashboardFilter) (MovementTotals, error)
}
