package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Las fechas de negocio llegan como "YYYY-MM-DD" (o RFC3339) y se parsean en el caso de uso.

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	BaseID              string           `json:"base_id"`
	AssetID             string           `json:"asset_id"`
	Quantity            decimal.Decimal  `json:"quantity"`
	UnitPrice           *decimal.Decimal `json:"unit_price,omitempty"`
	SupplierName        string           `json:"supplier_name"`
	PurchaseOrderNumber string           `json:"purchase_order_number"`
	PurchaseDate        string           `json:"purchase_date"`
	Notes               string           `json:"notes"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	SourceBaseID        string          `json:"source_base_id"`
	DestinationBaseID   string          `json:"destination_base_id"`
	AssetID             string          `json:"asset_id"`
	Quantity            decimal.Decimal `json:"quantity"`
	TransferDate        string          `json:"transfer_date"`
	TransferOrderNumber string          `json:"transfer_order_number"`
	Reason              string          `json:"reason"`
}

// CreateAssignmentRequest body para POST /api/assignments.
type CreateAssignmentRequest struct {
	BaseID              string          `json:"base_id"`
	AssetID             string          `json:"asset_id"`
	Quantity            decimal.Decimal `json:"quantity"`
	AssignedToPersonnel string          `json:"assigned_to_personnel"`
	AssignedToUnit      string          `json:"assigned_to_unit"`
	AssignmentDate      string          `json:"assignment_date"`
	Purpose             string          `json:"purpose"`
}

// CreateExpenditureRequest body para POST /api/expenditures.
type CreateExpenditureRequest struct {
	BaseID          string          `json:"base_id"`
	AssetID         string          `json:"asset_id"`
	AssignmentID    string          `json:"assignment_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	ExpenditureDate string          `json:"expenditure_date"`
	Reason          string          `json:"reason"`
	OperationName   string          `json:"operation_name"`
	AuthorizedBy    string          `json:"authorized_by"`
}

// CreatedResponse salida de toda creación de movimiento.
type CreatedResponse struct {
	CreatedID string `json:"created_id"`
	Message   string `json:"message"`
}

// MovementListQuery query string de los listados.
type MovementListQuery struct {
	BaseID    string `query:"base_id"`
	AssetID   string `query:"asset_id"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	Personnel string `query:"personnel"`
	Operation string `query:"operation"`
	Status    string `query:"status"`
	Limit     int    `query:"limit"`
	Offset    int    `query:"offset"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID                  string           `json:"id"`
	BaseID              string           `json:"base_id"`
	BaseName            string           `json:"base_name,omitempty"`
	AssetID             string           `json:"asset_id"`
	AssetName           string           `json:"asset_name,omitempty"`
	Category            string           `json:"category,omitempty"`
	Quantity            decimal.Decimal  `json:"quantity"`
	UnitPrice           *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice          *decimal.Decimal `json:"total_price,omitempty"`
	SupplierName        string           `json:"supplier_name,omitempty"`
	PurchaseOrderNumber string           `json:"purchase_order_number,omitempty"`
	PurchaseDate        string           `json:"purchase_date"`
	Notes               string           `json:"notes,omitempty"`
	CreatedBy           string           `json:"created_by"`
	CreatedByName       string           `json:"created_by_name,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
}

// TransferResponse salida de una transferencia.
type TransferResponse struct {
	ID                  string          `json:"id"`
	SourceBaseID        string          `json:"source_base_id"`
	SourceBaseName      string          `json:"source_base_name,omitempty"`
	DestinationBaseID   string          `json:"destination_base_id"`
	DestinationBaseName string          `json:"destination_base_name,omitempty"`
	AssetID             string          `json:"asset_id"`
	AssetName           string          `json:"asset_name,omitempty"`
	Category            string          `json:"category,omitempty"`
	Quantity            decimal.Decimal `json:"quantity"`
	TransferDate        string          `json:"transfer_date"`
	TransferOrderNumber string          `json:"transfer_order_number,omitempty"`
	Reason              string          `json:"reason,omitempty"`
	Status              string          `json:"status"`
	CreatedBy           string          `json:"created_by"`
	CreatedByName       string          `json:"created_by_name,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// AssignmentResponse salida de una asignación.
type AssignmentResponse struct {
	ID                  string          `json:"id"`
	BaseID              string          `json:"base_id"`
	BaseName            string          `json:"base_name,omitempty"`
	AssetID             string          `json:"asset_id"`
	AssetName           string          `json:"asset_name,omitempty"`
	Category            string          `json:"category,omitempty"`
	Quantity            decimal.Decimal `json:"quantity"`
	AssignedToPersonnel string          `json:"assigned_to_personnel"`
	AssignedToUnit      string          `json:"assigned_to_unit,omitempty"`
	AssignmentDate      string          `json:"assignment_date"`
	Purpose             string          `json:"purpose,omitempty"`
	Status              string          `json:"status"`
	CreatedBy           string          `json:"created_by"`
	CreatedByName       string          `json:"created_by_name,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ExpenditureResponse salida de un gasto.
type ExpenditureResponse struct {
	ID                  string          `json:"id"`
	BaseID              string          `json:"base_id"`
	BaseName            string          `json:"base_name,omitempty"`
	AssetID             string          `json:"asset_id"`
	AssetName           string          `json:"asset_name,omitempty"`
	Category            string          `json:"category,omitempty"`
	AssignmentID        *string         `json:"assignment_id,omitempty"`
	AssignedToPersonnel string          `json:"assigned_to_personnel,omitempty"`
	AssignedToUnit      string          `json:"assigned_to_unit,omitempty"`
	Quantity            decimal.Decimal `json:"quantity"`
	ExpenditureDate     string          `json:"expenditure_date"`
	Reason              string          `json:"reason"`
	OperationName       string          `json:"operation_name,omitempty"`
	AuthorizedBy        string          `json:"authorized_by,omitempty"`
	CreatedBy           string          `json:"created_by"`
	CreatedByName       string          `json:"created_by_name,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}
