package repository

import (
	"context"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
)

// ExpenditureRepository puerto de persistencia para gastos.
type ExpenditureRepository interface {
	Create(ctx context.Context, e *entity.Expenditure) error
	GetByID(ctx context.Context, id string) (*entity.Expenditure, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Expenditure, error)
}
