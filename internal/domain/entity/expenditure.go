package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expenditure registra el consumo de activos. No modifica saldos: la cantidad ya salió
// de current_quantity cuando se creó la asignación referenciada.
type Expenditure struct {
	ID              string
	BaseID          string
	AssetID         string
	AssignmentID    *string
	Quantity        decimal.Decimal
	ExpenditureDate time.Time
	Reason          string
	OperationName   string
	AuthorizedBy    string
	CreatedBy       string
	CreatedAt       time.Time

	BaseName            string
	AssetName           string
	AssetCategory       string
	AssignedToPersonnel string
	AssignedToUnit      string
	CreatedByName       string
}
