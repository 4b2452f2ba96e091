package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una asignación.
const (
	AssignmentStatusActive   = "active"
	AssignmentStatusExpended = "expended"
)

// Assignment registra activos entregados a personal o unidad. Nace en estado active
// y solo pasa a expended mediante un Expenditure que la referencia.
type Assignment struct {
	ID                  string
	BaseID              string
	AssetID             string
	Quantity            decimal.Decimal
	AssignedToPersonnel string
	AssignedToUnit      string
	AssignmentDate      time.Time
	Purpose             string
	Status              string
	CreatedBy           string
	CreatedAt           time.Time

	BaseName      string
	AssetName     string
	AssetCategory string
	CreatedByName string
}
