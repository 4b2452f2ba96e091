package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
)

// InventoryRepository es el puerto del InventoryStore: saldo por (base, activo) con
// mutación condicional. Usado dentro de transacciones para garantizar consistencia.
type InventoryRepository interface {
	// Get devuelve el registro o nil si el par aún no existe.
	Get(ctx context.Context, baseID, assetID string) (*entity.InventoryRecord, error)

	// TryAdjust aplica el ajuste como una única escritura condicionada y devuelve el
	// nuevo current_quantity. Un crédito crea el registro si no existe. Un débito que
	// dejaría el saldo negativo (o sobre un par inexistente) no modifica nada y
	// devuelve domain.ErrInsufficientBalance.
	TryAdjust(ctx context.Context, adj entity.Adjustment) (decimal.Decimal, error)
}
