package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

// AssignmentRepo asignaciones a personal o unidad.
type AssignmentRepo struct {
	q Querier
}

// NewAssignmentRepository construye el adaptador de asignaciones.
func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

const assignmentSelect = `
	SELECT asn.id, asn.base_id, asn.asset_id, asn.quantity, asn.assigned_to_personnel, asn.assigned_to_unit,
	       asn.assignment_date, asn.purpose, asn.status, asn.created_by, asn.created_at,
	       b.name, a.name, a.category, u.full_name
	FROM assignments asn
	JOIN bases b ON b.id = asn.base_id
	JOIN assets a ON a.id = asn.asset_id
	JOIN users u ON u.id = asn.created_by`

func scanAssignment(row pgx.Row) (*entity.Assignment, error) {
	var a entity.Assignment
	err := row.Scan(
		&a.ID, &a.BaseID, &a.AssetID, &a.Quantity, &a.AssignedToPersonnel, &a.AssignedToUnit,
		&a.AssignmentDate, &a.Purpose, &a.Status, &a.CreatedBy, &a.CreatedAt,
		&a.BaseName, &a.AssetName, &a.AssetCategory, &a.CreatedByName,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepo) Create(ctx context.Context, a *entity.Assignment) error {
	query := `
		INSERT INTO assignments (id, base_id, asset_id, quantity, assigned_to_personnel, assigned_to_unit,
			assignment_date, purpose, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.BaseID, a.AssetID, a.Quantity, a.AssignedToPersonnel, a.AssignedToUnit,
		a.AssignmentDate, a.Purpose, a.Status, a.CreatedBy, a.CreatedAt,
	)
	return classify("insert assignment", err)
}

func (r *AssignmentRepo) GetByID(ctx context.Context, id string) (*entity.Assignment, error) {
	a, err := scanAssignment(r.q.QueryRow(ctx, assignmentSelect+` WHERE asn.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get assignment", err)
	}
	return a, nil
}

func (r *AssignmentRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Assignment, error) {
	w := &whereBuilder{}
	w.eq("asn.base_id", f.BaseID)
	w.eq("asn.asset_id", f.AssetID)
	w.eq("asn.status", f.Status)
	w.contains("asn.assigned_to_personnel", f.Personnel)
	w.dateRange("asn.assignment_date", f.From, f.To)
	query := assignmentSelect + w.sql() + ` ORDER BY asn.assignment_date DESC, asn.created_at DESC` + w.page(f)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, classify("list assignments", err)
	}
	defer rows.Close()

	var out []*entity.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, classify("scan assignment", err)
		}
		out = append(out, a)
	}
	return out, classify("list assignments", rows.Err())
}

// MarkExpended cambia el estado solo si la asignación sigue active; la fila queda
// bloqueada hasta el fin de la transacción, así un segundo gasto concurrente ve cero filas.
func (r *AssignmentRepo) MarkExpended(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE assignments SET status = $2 WHERE id = $1 AND status = $3`,
		id, entity.AssignmentStatusExpended, entity.AssignmentStatusActive,
	)
	if err != nil {
		return false, classify("mark assignment expended", err)
	}
	return tag.RowsAffected() == 1, nil
}
