package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo transferencias entre bases.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de transferencias.
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferSelect = `
	SELECT t.id, t.source_base_id, t.destination_base_id, t.asset_id, t.quantity, t.transfer_date,
	       t.transfer_order_number, t.reason, t.status, t.created_by, t.created_at,
	       sb.name, db.name, a.name, a.category, u.full_name
	FROM transfers t
	JOIN bases sb ON sb.id = t.source_base_id
	JOIN bases db ON db.id = t.destination_base_id
	JOIN assets a ON a.id = t.asset_id
	JOIN users u ON u.id = t.created_by`

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	err := row.Scan(
		&t.ID, &t.SourceBaseID, &t.DestinationBaseID, &t.AssetID, &t.Quantity, &t.TransferDate,
		&t.TransferOrderNumber, &t.Reason, &t.Status, &t.CreatedBy, &t.CreatedAt,
		&t.SourceBaseName, &t.DestinationBaseName, &t.AssetName, &t.AssetCategory, &t.CreatedByName,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (id, source_base_id, destination_base_id, asset_id, quantity, transfer_date,
			transfer_order_number, reason, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.SourceBaseID, t.DestinationBaseID, t.AssetID, t.Quantity, t.TransferDate,
		t.TransferOrderNumber, t.Reason, t.Status, t.CreatedBy, t.CreatedAt,
	)
	return classify("insert transfer", err)
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, transferSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get transfer", err)
	}
	return t, nil
}

// List con BaseID devuelve las transferencias donde la base es origen o destino.
func (r *TransferRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Transfer, error) {
	w := &whereBuilder{}
	if f.BaseID != "" {
		p := w.arg(f.BaseID)
		w.where("(t.source_base_id = " + p + " OR t.destination_base_id = " + p + ")")
	}
	w.eq("t.asset_id", f.AssetID)
	w.dateRange("t.transfer_date", f.From, f.To)
	query := transferSelect + w.sql() + ` ORDER BY t.transfer_date DESC, t.created_at DESC` + w.page(f)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, classify("list transfers", err)
	}
	defer rows.Close()

	var out []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, classify("scan transfer", err)
		}
		out = append(out, t)
	}
	return out, classify("list transfers", rows.Err())
}
