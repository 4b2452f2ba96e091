package entity

import "time"

// Base representa una base militar (ubicación física u organizacional) que mantiene inventario.
type Base struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
}
