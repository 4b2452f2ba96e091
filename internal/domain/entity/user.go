package entity

import "time"

// User representa una cuenta del sistema. Role es uno de access.Role; BaseID vacío
// solo es válido para admin.
type User struct {
	ID           string
	Username     string
	FullName     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string
	BaseID       string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
