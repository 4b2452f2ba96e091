package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo compras sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseSelect = `
	SELECT p.id, p.base_id, p.asset_id, p.quantity, p.unit_price, p.total_price, p.supplier_name,
	       p.purchase_order_number, p.purchase_date, p.notes, p.created_by, p.created_at,
	       b.name, a.name, a.category, u.full_name
	FROM purchases p
	JOIN bases b ON b.id = p.base_id
	JOIN assets a ON a.id = p.asset_id
	JOIN users u ON u.id = p.created_by`

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(
		&p.ID, &p.BaseID, &p.AssetID, &p.Quantity, &p.UnitPrice, &p.TotalPrice, &p.SupplierName,
		&p.PurchaseOrderNumber, &p.PurchaseDate, &p.Notes, &p.CreatedBy, &p.CreatedAt,
		&p.BaseName, &p.AssetName, &p.AssetCategory, &p.CreatedByName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta la compra. Base, activo o usuario inexistentes devuelven ErrNotFound.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, base_id, asset_id, quantity, unit_price, total_price, supplier_name,
			purchase_order_number, purchase_date, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.BaseID, p.AssetID, p.Quantity, p.UnitPrice, p.TotalPrice, p.SupplierName,
		p.PurchaseOrderNumber, p.PurchaseDate, p.Notes, p.CreatedBy, p.CreatedAt,
	)
	return classify("insert purchase", err)
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, purchaseSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get purchase", err)
	}
	return p, nil
}

// List compras más recientes primero (fecha de compra y luego creación).
func (r *PurchaseRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Purchase, error) {
	w := &whereBuilder{}
	w.eq("p.base_id", f.BaseID)
	w.eq("p.asset_id", f.AssetID)
	w.dateRange("p.purchase_date", f.From, f.To)
	query := purchaseSelect + w.sql() + ` ORDER BY p.purchase_date DESC, p.created_at DESC` + w.page(f)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, classify("list purchases", err)
	}
	defer rows.Close()

	var out []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, classify("scan purchase", err)
		}
		out = append(out, p)
	}
	return out, classify("list purchases", rows.Err())
}
