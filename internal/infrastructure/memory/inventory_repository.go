package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo saldos por (base, activo).
type InventoryRepo struct {
	acc accessor
	now func() time.Time
}

// Get devuelve una copia del registro o nil si el par no existe.
func (r *InventoryRepo) Get(_ context.Context, baseID, assetID string) (*entity.InventoryRecord, error) {
	var out *entity.InventoryRecord
	err := r.acc.read(func(st *state) error {
		if rec, ok := st.inventory[pairKey{baseID, assetID}]; ok {
			cp := *rec
			out = &cp
		}
		return nil
	})
	return out, err
}

// TryAdjust aplica el ajuste bajo el lock del estado: comprobar y escribir son un único paso.
func (r *InventoryRepo) TryAdjust(_ context.Context, adj entity.Adjustment) (decimal.Decimal, error) {
	var result decimal.Decimal
	err := r.acc.write(func(st *state) error {
		k := pairKey{adj.BaseID, adj.AssetID}
		rec, ok := st.inventory[k]

		if adj.Delta.IsNegative() {
			if !ok || rec.CurrentQuantity.Add(adj.Delta).IsNegative() {
				return fmt.Errorf("%w: %s/%s", domain.ErrInsufficientBalance, adj.BaseID, adj.AssetID)
			}
		} else if !ok {
			if _, exists := st.bases[adj.BaseID]; !exists {
				return fmt.Errorf("%w: base %s", domain.ErrNotFound, adj.BaseID)
			}
			if _, exists := st.assets[adj.AssetID]; !exists {
				return fmt.Errorf("%w: activo %s", domain.ErrNotFound, adj.AssetID)
			}
			rec = &entity.InventoryRecord{
				ID:              uuid.New().String(),
				BaseID:          adj.BaseID,
				AssetID:         adj.AssetID,
				OpeningBalance:  decimal.Zero,
				CurrentQuantity: decimal.Zero,
				ClosingBalance:  decimal.Zero,
			}
		}

		current := rec.CurrentQuantity.Add(adj.Delta)
		closing := rec.ClosingBalance
		if !adj.CurrentOnly {
			closing = closing.Add(adj.Delta)
		}
		if !entity.QuantityInRange(current) || !entity.QuantityInRange(closing) {
			return fmt.Errorf("%w: saldo de %s/%s fuera de rango", domain.ErrInvalidInput, adj.BaseID, adj.AssetID)
		}
		rec.CurrentQuantity = current
		rec.ClosingBalance = closing
		st.inventory[k] = rec
		rec.UpdatedAt = r.now()
		result = rec.CurrentQuantity
		return nil
	})
	return result, err
}
