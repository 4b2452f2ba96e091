package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

var _ repository.ExpenditureRepository = (*ExpenditureRepo)(nil)

// ExpenditureRepo gastos de activos.
type ExpenditureRepo struct {
	q Querier
}

// NewExpenditureRepository construye el adaptador de gastos.
func NewExpenditureRepository(q Querier) *ExpenditureRepo {
	return &ExpenditureRepo{q: q}
}

const expenditureSelect = `
	SELECT e.id, e.base_id, e.asset_id, e.assignment_id, e.quantity, e.expenditure_date, e.reason,
	       e.operation_name, e.authorized_by, e.created_by, e.created_at,
	       b.name, a.name, a.category,
	       COALESCE(asn.assigned_to_personnel, ''), COALESCE(asn.assigned_to_unit, ''), u.full_name
	FROM expenditures e
	JOIN bases b ON b.id = e.base_id
	JOIN assets a ON a.id = e.asset_id
	LEFT JOIN assignments asn ON asn.id = e.assignment_id
	JOIN users u ON u.id = e.created_by`

func scanExpenditure(row pgx.Row) (*entity.Expenditure, error) {
	var e entity.Expenditure
	err := row.Scan(
		&e.ID, &e.BaseID, &e.AssetID, &e.AssignmentID, &e.Quantity, &e.ExpenditureDate, &e.Reason,
		&e.OperationName, &e.AuthorizedBy, &e.CreatedBy, &e.CreatedAt,
		&e.BaseName, &e.AssetName, &e.AssetCategory,
		&e.AssignedToPersonnel, &e.AssignedToUnit, &e.CreatedByName,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExpenditureRepo) Create(ctx context.Context, e *entity.Expenditure) error {
	query := `
		INSERT INTO expenditures (id, base_id, asset_id, assignment_id, quantity, expenditure_date, reason,
			operation_name, authorized_by, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.BaseID, e.AssetID, e.AssignmentID, e.Quantity, e.ExpenditureDate, e.Reason,
		e.OperationName, e.AuthorizedBy, e.CreatedBy, e.CreatedAt,
	)
	return classify("insert expenditure", err)
}

func (r *ExpenditureRepo) GetByID(ctx context.Context, id string) (*entity.Expenditure, error) {
	e, err := scanExpenditure(r.q.QueryRow(ctx, expenditureSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get expenditure", err)
	}
	return e, nil
}

func (r *ExpenditureRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Expenditure, error) {
	w := &whereBuilder{}
	w.eq("e.base_id", f.BaseID)
	w.eq("e.asset_id", f.AssetID)
	w.contains("e.operation_name", f.Operation)
	w.dateRange("e.expenditure_date", f.From, f.To)
	query := expenditureSelect + w.sql() + ` ORDER BY e.expenditure_date DESC, e.created_at DESC` + w.page(f)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, classify("list expenditures", err)
	}
	defer rows.Close()

	var out []*entity.Expenditure
	for rows.Next() {
		e, err := scanExpenditure(rows)
		if err != nil {
			return nil, classify("scan expenditure", err)
		}
		out = append(out, e)
	}
	return out, classify("list expenditures", rows.Err())
}
