package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase registra la entrada de activos a una base por compra. Inmutable una vez creado.
type Purchase struct {
	ID                  string
	BaseID              string
	AssetID             string
	Quantity            decimal.Decimal
	UnitPrice           *decimal.Decimal
	TotalPrice          *decimal.Decimal // UnitPrice * Quantity, nil si no hay precio
	SupplierName        string
	PurchaseOrderNumber string
	PurchaseDate        time.Time
	Notes               string
	CreatedBy           string
	CreatedAt           time.Time

	// Campos de lectura (joins), no se persisten.
	BaseName      string
	AssetName     string
	AssetCategory string
	CreatedByName string
}
