package repository

import (
	"context"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
)

// AssignmentRepository puerto de persistencia para asignaciones.
type AssignmentRepository interface {
	Create(ctx context.Context, a *entity.Assignment) error
	GetByID(ctx context.Context, id string) (*entity.Assignment, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Assignment, error)

	// MarkExpended pasa la asignación de active a expended con una escritura condicionada.
	// Devuelve false si no había una asignación active con ese id (inexistente o ya gastada).
	MarkExpended(ctx context.Context, id string) (bool, error)
}
