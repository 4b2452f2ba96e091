package entity

import "time"

// Acciones auditadas.
const (
	AuditActionCreatePurchase    = "CREATE_PURCHASE"
	AuditActionCreateTransfer    = "CREATE_TRANSFER"
	AuditActionCreateAssignment  = "CREATE_ASSIGNMENT"
	AuditActionCreateExpenditure = "CREATE_EXPENDITURE"
	AuditActionLogin             = "LOGIN"
)

// Tipos de entidad auditada.
const (
	AuditEntityPurchase    = "purchase"
	AuditEntityTransfer    = "transfer"
	AuditEntityAssignment  = "assignment"
	AuditEntityExpenditure = "expenditure"
	AuditEntityUser        = "user"
)

// AuditLogEntry registra quién hizo qué, sobre qué entidad y desde dónde. Solo se agrega.
type AuditLogEntry struct {
	ID         int64
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]any
	IPAddress  string
	CreatedAt  time.Time

	Username string
	FullName string
}
