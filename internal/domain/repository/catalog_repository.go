package repository

import (
	"context"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
)

// CatalogRepository datos de referencia (bases y activos). Inmutables para el motor;
// solo el seed los escribe.
type CatalogRepository interface {
	CreateBase(ctx context.Context, b *entity.Base) error
	CreateAsset(ctx context.Context, a *entity.Asset) error
	ListBases(ctx context.Context) ([]*entity.Base, error)
	ListAssets(ctx context.Context) ([]*entity.Asset, error)
}
