package repository

import (
	"context"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
)

// PurchaseRepository puerto de persistencia para compras (solo inserción y lectura).
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Purchase, error)
}
