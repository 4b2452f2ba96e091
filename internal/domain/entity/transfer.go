package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatusCompleted es el único estado que produce el motor: las transferencias son
// atómicas, no existen estados pendientes o fallidos persistidos.
const TransferStatusCompleted = "completed"

// Transfer registra el traslado de una cantidad de un activo entre dos bases distintas.
type Transfer struct {
	ID                  string
	SourceBaseID        string
	DestinationBaseID   string
	AssetID             string
	Quantity            decimal.Decimal
	TransferDate        time.Time
	TransferOrderNumber string
	Reason              string
	Status              string
	CreatedBy           string
	CreatedAt           time.Time

	SourceBaseName      string
	DestinationBaseName string
	AssetName           string
	AssetCategory       string
	CreatedByName       string
}

// Touches indica si la transferencia tiene como origen o destino la base indicada.
func (t *Transfer) Touches(baseID string) bool {
	return t.SourceBaseID == baseID || t.DestinationBaseID == baseID
}
