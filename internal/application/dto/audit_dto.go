package dto

import "time"

// AuditLogQuery query string de GET /api/audit.
type AuditLogQuery struct {
	UserID     string `query:"user_id"`
	Action     string `query:"action"`
	EntityType string `query:"entity_type"`
	StartDate  string `query:"start_date"`
	EndDate    string `query:"end_date"`
	Limit      int    `query:"limit"`
}

// AuditLogResponse salida de una entrada del log de auditoría.
type AuditLogResponse struct {
	ID         int64          `json:"id"`
	UserID     string         `json:"user_id"`
	Username   string         `json:"username,omitempty"`
	FullName   string         `json:"full_name,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
