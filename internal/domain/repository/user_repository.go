package repository

import (
	"context"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// FindActiveByUsername devuelve nil si no existe o está inactivo.
	FindActiveByUsername(ctx context.Context, username string) (*entity.User, error)
}
