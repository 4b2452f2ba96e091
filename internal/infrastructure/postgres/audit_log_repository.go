package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo log de auditoría append-only. details se guarda como JSONB.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador de auditoría.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create inserta la entrada y asigna el ID generado.
func (r *AuditLogRepo) Create(ctx context.Context, e *entity.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, details, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		e.UserID, e.Action, e.EntityType, e.EntityID, e.Details, e.IPAddress, createdAt(e.CreatedAt),
	).Scan(&e.ID)
	return classify("insert audit log", err)
}

// List entradas más recientes primero. To incluye el día completo.
func (r *AuditLogRepo) List(ctx context.Context, f repository.AuditLogFilter) ([]*entity.AuditLogEntry, error) {
	w := &whereBuilder{}
	w.eq("al.user_id", f.UserID)
	w.eq("al.action", f.Action)
	w.eq("al.entity_type", f.EntityType)
	if f.From != nil {
		w.where("al.created_at >= " + w.arg(*f.From))
	}
	if f.To != nil {
		w.where("al.created_at < " + w.arg(f.To.Add(24*time.Hour)))
	}
	query := `
		SELECT al.id, al.user_id, al.action, al.entity_type, al.entity_id, al.details, al.ip_address, al.created_at,
		       COALESCE(u.username, ''), COALESCE(u.full_name, '')
		FROM audit_logs al
		LEFT JOIN users u ON u.id = al.user_id` + w.sql() + `
		ORDER BY al.created_at DESC, al.id DESC`
	if f.Limit > 0 {
		query += " LIMIT " + w.arg(f.Limit)
	}

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, classify("list audit logs", err)
	}
	defer rows.Close()

	var out []*entity.AuditLogEntry
	for rows.Next() {
		var e entity.AuditLogEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.IPAddress, &e.CreatedAt,
			&e.Username, &e.FullName,
		); err != nil {
			return nil, classify("scan audit log", err)
		}
		out = append(out, &e)
	}
	return out, classify("list audit logs", rows.Err())
}
