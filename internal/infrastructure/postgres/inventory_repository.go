package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo saldos por (base, activo) sobre la tabla inventory (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get devuelve el registro del par o nil si todavía no existe.
func (r *InventoryRepo) Get(ctx context.Context, baseID, assetID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT id, base_id, asset_id, opening_balance, current_quantity, closing_balance, updated_at
		FROM inventory WHERE base_id = $1 AND asset_id = $2`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, baseID, assetID).Scan(
		&rec.ID, &rec.BaseID, &rec.AssetID, &rec.OpeningBalance, &rec.CurrentQuantity, &rec.ClosingBalance, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get inventory", err)
	}
	return &rec, nil
}

const debitQuery = `
	UPDATE inventory
	SET current_quantity = current_quantity + $3,
	    closing_balance  = closing_balance + $3,
	    updated_at       = now()
	WHERE base_id = $1 AND asset_id = $2 AND current_quantity + $3 >= 0
	RETURNING current_quantity`

const debitCurrentOnlyQuery = `
	UPDATE inventory
	SET current_quantity = current_quantity + $3,
	    updated_at       = now()
	WHERE base_id = $1 AND asset_id = $2 AND current_quantity + $3 >= 0
	RETURNING current_quantity`

// TryAdjust aplica el ajuste en una sola sentencia. El débito lleva la condición de saldo
// en el WHERE: cero filas afectadas significa saldo insuficiente o par inexistente.
// El crédito es un upsert sobre (base_id, asset_id).
func (r *InventoryRepo) TryAdjust(ctx context.Context, adj entity.Adjustment) (decimal.Decimal, error) {
	if adj.Delta.IsNegative() {
		query := debitQuery
		if adj.CurrentOnly {
			query = debitCurrentOnlyQuery
		}
		var current decimal.Decimal
		err := r.q.QueryRow(ctx, query, adj.BaseID, adj.AssetID, adj.Delta).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return decimal.Zero, fmt.Errorf("%w: %s/%s", domain.ErrInsufficientBalance, adj.BaseID, adj.AssetID)
			}
			return decimal.Zero, classify("debit inventory", err)
		}
		return current, nil
	}

	closingDelta := adj.Delta
	if adj.CurrentOnly {
		closingDelta = decimal.Zero
	}
	query := `
		INSERT INTO inventory (id, base_id, asset_id, opening_balance, current_quantity, closing_balance, updated_at)
		VALUES ($1, $2, $3, 0, $4, $5, now())
		ON CONFLICT (base_id, asset_id) DO UPDATE
		SET current_quantity = inventory.current_quantity + EXCLUDED.current_quantity,
		    closing_balance  = inventory.closing_balance + EXCLUDED.closing_balance,
		    updated_at       = now()
		RETURNING current_quantity`
	var current decimal.Decimal
	err := r.q.QueryRow(ctx, query, uuid.New().String(), adj.BaseID, adj.AssetID, adj.Delta, closingDelta).Scan(&current)
	if err != nil {
		return decimal.Zero, classify("credit inventory", err)
	}
	return current, nil
}
