package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo bases y activos. Solo el seed escribe.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador del catálogo.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func (r *CatalogRepo) CreateBase(ctx context.Context, b *entity.Base) error {
	query := `
		INSERT INTO bases (id, name, location, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, b.ID, b.Name, b.Location, createdAt(b.CreatedAt))
	return classify("insert base", err)
}

func (r *CatalogRepo) CreateAsset(ctx context.Context, a *entity.Asset) error {
	query := `
		INSERT INTO assets (id, name, category, unit_of_measure, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, a.ID, a.Name, a.Category, a.UnitOfMeasure, createdAt(a.CreatedAt))
	return classify("insert asset", err)
}

func (r *CatalogRepo) ListBases(ctx context.Context) ([]*entity.Base, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, location, created_at FROM bases ORDER BY name`)
	if err != nil {
		return nil, classify("list bases", err)
	}
	defer rows.Close()

	var out []*entity.Base
	for rows.Next() {
		var b entity.Base
		if err := rows.Scan(&b.ID, &b.Name, &b.Location, &b.CreatedAt); err != nil {
			return nil, classify("scan base", err)
		}
		out = append(out, &b)
	}
	return out, classify("list bases", rows.Err())
}

func (r *CatalogRepo) ListAssets(ctx context.Context) ([]*entity.Asset, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, category, unit_of_measure, created_at FROM assets ORDER BY name`)
	if err != nil {
		return nil, classify("list assets", err)
	}
	defer rows.Close()

	var out []*entity.Asset
	for rows.Next() {
		var a entity.Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Category, &a.UnitOfMeasure, &a.CreatedAt); err != nil {
			return nil, classify("scan asset", err)
		}
		out = append(out, &a)
	}
	return out, classify("list assets", rows.Err())
}

func createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
