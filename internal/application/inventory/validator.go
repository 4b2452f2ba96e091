package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/access"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
)

// PurchaseInput entrada de una compra.
type PurchaseInput struct {
	BaseID              string
	AssetID             string
	Quantity            decimal.Decimal
	UnitPrice           *decimal.Decimal
	SupplierName        string
	PurchaseOrderNumber string
	PurchaseDate        time.Time
	Notes               string
}

// TransferInput entrada de una transferencia entre bases.
type TransferInput struct {
	SourceBaseID        string
	DestinationBaseID   string
	AssetID             string
	Quantity            decimal.Decimal
	TransferDate        time.Time
	TransferOrderNumber string
	Reason              string
}

// AssignmentInput entrada de una asignación a personal o unidad.
type AssignmentInput struct {
	BaseID              string
	AssetID             string
	Quantity            decimal.Decimal
	AssignedToPersonnel string
	AssignedToUnit      string
	AssignmentDate      time.Time
	Purpose             string
}

// ExpenditureInput entrada de un gasto. AssignmentID vacío = gasto sin asignación.
type ExpenditureInput struct {
	BaseID          string
	AssetID         string
	AssignmentID    string
	Quantity        decimal.Decimal
	ExpenditureDate time.Time
	Reason          string
	OperationName   string
	AuthorizedBy    string
}

// MovementValidator aplica las precondiciones de cada tipo de movimiento antes de mutar.
// Orden: permiso del rol, campos, alcance de base y, para débitos, disponibilidad.
// La disponibilidad es solo un pre-chequeo; la garantía real es el débito condicionado.
type MovementValidator struct {
	balances BalanceReader
}

// NewMovementValidator construye el validador.
func NewMovementValidator(balances BalanceReader) *MovementValidator {
	return &MovementValidator{balances: balances}
}

// ValidatePurchase valida una compra.
func (v *MovementValidator) ValidatePurchase(_ context.Context, scope access.Scope, in PurchaseInput) error {
	if err := scope.Authorize(access.ActionCreatePurchase); err != nil {
		return err
	}
	if err := requireFields(map[string]string{"base_id": in.BaseID, "asset_id": in.AssetID}); err != nil {
		return err
	}
	if err := requirePositive("quantity", in.Quantity); err != nil {
		return err
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit_price no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.UnitPrice != nil {
		if err := requireInRange("unit_price", *in.UnitPrice); err != nil {
			return err
		}
	}
	if in.PurchaseDate.IsZero() {
		return fmt.Errorf("%w: purchase_date requerido", domain.ErrInvalidInput)
	}
	return scope.AuthorizeWrite(access.ActionCreatePurchase, in.BaseID)
}

// ValidateTransfer valida una transferencia, incluida la disponibilidad en origen.
func (v *MovementValidator) ValidateTransfer(ctx context.Context, scope access.Scope, in TransferInput) error {
	if err := scope.Authorize(access.ActionCreateTransfer); err != nil {
		return err
	}
	if err := requireFields(map[string]string{
		"source_base_id":      in.SourceBaseID,
		"destination_base_id": in.DestinationBaseID,
		"asset_id":            in.AssetID,
	}); err != nil {
		return err
	}
	if err := requirePositive("quantity", in.Quantity); err != nil {
		return err
	}
	if in.SourceBaseID == in.DestinationBaseID {
		return fmt.Errorf("%w: la base de origen y destino deben ser distintas", domain.ErrInvalidInput)
	}
	if in.TransferDate.IsZero() {
		return fmt.Errorf("%w: transfer_date requerido", domain.ErrInvalidInput)
	}
	if err := scope.AuthorizeTransfer(in.SourceBaseID, in.DestinationBaseID); err != nil {
		return err
	}
	return v.checkAvailable(ctx, in.SourceBaseID, in.AssetID, in.Quantity)
}

// ValidateAssignment valida una asignación, incluida la disponibilidad en la base.
func (v *MovementValidator) ValidateAssignment(ctx context.Context, scope access.Scope, in AssignmentInput) error {
	if err := scope.Authorize(access.ActionCreateAssignment); err != nil {
		return err
	}
	if err := requireFields(map[string]string{
		"base_id":               in.BaseID,
		"asset_id":              in.AssetID,
		"assigned_to_personnel": in.AssignedToPersonnel,
	}); err != nil {
		return err
	}
	if err := requirePositive("quantity", in.Quantity); err != nil {
		return err
	}
	if in.AssignmentDate.IsZero() {
		return fmt.Errorf("%w: assignment_date requerido", domain.ErrInvalidInput)
	}
	if err := scope.AuthorizeWrite(access.ActionCreateAssignment, in.BaseID); err != nil {
		return err
	}
	return v.checkAvailable(ctx, in.BaseID, in.AssetID, in.Quantity)
}

// ValidateExpenditure valida un gasto. La coherencia con la asignación referenciada
// se comprueba dentro de la transacción.
func (v *MovementValidator) ValidateExpenditure(_ context.Context, scope access.Scope, in ExpenditureInput) error {
	if err := scope.Authorize(access.ActionCreateExpenditure); err != nil {
		return err
	}
	if err := requireFields(map[string]string{
		"base_id":  in.BaseID,
		"asset_id": in.AssetID,
		"reason":   in.Reason,
	}); err != nil {
		return err
	}
	if err := requirePositive("quantity", in.Quantity); err != nil {
		return err
	}
	if in.ExpenditureDate.IsZero() {
		return fmt.Errorf("%w: expenditure_date requerido", domain.ErrInvalidInput)
	}
	return scope.AuthorizeWrite(access.ActionCreateExpenditure, in.BaseID)
}

func (v *MovementValidator) checkAvailable(ctx context.Context, baseID, assetID string, qty decimal.Decimal) error {
	rec, err := v.balances.Get(ctx, baseID, assetID)
	if err != nil {
		return err
	}
	available := decimal.Zero
	if rec != nil {
		available = rec.CurrentQuantity
	}
	if available.LessThan(qty) {
		return fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientBalance, available, qty)
	}
	return nil
}

func requireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: campos requeridos: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
}

func requirePositive(name string, q decimal.Decimal) error {
	if !q.IsPositive() {
		return fmt.Errorf("%w: %s debe ser mayor que cero", domain.ErrInvalidInput, name)
	}
	return requireInRange(name, q)
}

func requireInRange(name string, q decimal.Decimal) error {
	if !entity.QuantityInRange(q) {
		return fmt.Errorf("%w: %s admite hasta %d decimales y debe ser menor que %s", domain.ErrInvalidInput, name, entity.QuantityScale, entity.MaxQuantity)
	}
	return nil
}
