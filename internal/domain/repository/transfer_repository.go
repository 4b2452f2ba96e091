package repository

import (
	"context"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
)

// TransferRepository puerto de persistencia para transferencias entre bases.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Transfer, error)
}
