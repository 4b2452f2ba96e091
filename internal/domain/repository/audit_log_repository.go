package repository

import (
	"context"
	"time"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
)

// AuditDefaultLimit y AuditMaxLimit acotan la consulta del log de auditoría.
const (
	AuditDefaultLimit = 100
	AuditMaxLimit     = 500
)

// AuditLogFilter filtros de consulta del log de auditoría.
type AuditLogFilter struct {
	UserID     string
	Action     string
	EntityType string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// AuditLogRepository persistencia del log de auditoría. Append-only.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entity.AuditLogEntry) error
	List(ctx context.Context, filter AuditLogFilter) ([]*entity.AuditLogEntry, error)
}
