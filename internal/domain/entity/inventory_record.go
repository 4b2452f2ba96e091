package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord es el saldo vivo de un par (base, activo). Clave única (BaseID, AssetID).
// Se crea perezosamente con la primera compra o transferencia entrante y nunca se borra.
type InventoryRecord struct {
	ID              string
	BaseID          string
	AssetID         string
	OpeningBalance  decimal.Decimal
	CurrentQuantity decimal.Decimal
	ClosingBalance  decimal.Decimal
	UpdatedAt       time.Time
}

// Adjustment describe un cambio de saldo sobre un par (base, activo).
// Delta positivo acredita (nunca falla); negativo debita y falla si el saldo quedaría negativo.
// CurrentOnly deja intacto closing_balance: una asignación retira cantidad disponible
// pero el activo sigue perteneciendo a la base.
type Adjustment struct {
	BaseID      string
	AssetID     string
	Delta       decimal.Decimal
	CurrentOnly bool
}

// Rango representable de cantidades y saldos: NUMERIC(18,4).
const QuantityScale = 4

// MaxQuantity cota superior exclusiva de cantidades y saldos.
var MaxQuantity = decimal.New(1, 14)

// QuantityInRange indica si q cabe en el rango representable (escala y magnitud).
func QuantityInRange(q decimal.Decimal) bool {
	if !q.Equal(q.Truncate(QuantityScale)) {
		return false
	}
	return q.Abs().LessThan(MaxQuantity)
}
