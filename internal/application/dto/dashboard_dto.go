package dto

import "github.com/shopspring/decimal"

// DashboardQuery query string de GET /api/dashboard y /movement-breakdown.
type DashboardQuery struct {
	BaseID    string `query:"base_id"`
	AssetID   string `query:"asset_id"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// DashboardRowDTO una fila por registro de inventario dentro del alcance.
type DashboardRowDTO struct {
	BaseID          string          `json:"base_id"`
	BaseName        string          `json:"base_name"`
	AssetID         string          `json:"asset_id"`
	AssetName       string          `json:"asset_name"`
	Category        string          `json:"category"`
	UnitOfMeasure   string          `json:"unit_of_measure"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	ClosingBalance  decimal.Decimal `json:"closing_balance"`
	TotalPurchases  decimal.Decimal `json:"total_purchases"`
	TransfersIn     decimal.Decimal `json:"transfers_in"`
	TransfersOut    decimal.Decimal `json:"transfers_out"`
	TotalAssigned   decimal.Decimal `json:"total_assigned"`
	TotalExpended   decimal.Decimal `json:"total_expended"`
	NetMovement     decimal.Decimal `json:"net_movement"` // compras + entradas - salidas
}

// MovementBreakdownDTO desglose de movimientos netos para un par (base, activo).
type MovementBreakdownDTO struct {
	Purchases    decimal.Decimal `json:"purchases"`
	TransfersIn  decimal.Decimal `json:"transfers_in"`
	TransfersOut decimal.Decimal `json:"transfers_out"`
	NetMovement  decimal.Decimal `json:"net_movement"`
}
