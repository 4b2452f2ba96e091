package inventory

import (
	"context"

	"github.com/jhoicas/military-assets-api/internal/application/dto"
	"github.com/jhoicas/military-assets-api/internal/domain/access"
)

// Adaptadores del request HTTP al caso de uso. Solo parsean fechas; el resto de la
// validación la hace MovementValidator.

// CreatePurchaseFromRequest adapta dto.CreatePurchaseRequest a CreatePurchase.
func (uc *MovementUseCase) CreatePurchaseFromRequest(ctx context.Context, scope access.Scope, in dto.CreatePurchaseRequest, meta RequestMeta) (string, error) {
	date, err := dto.ParseDate(in.PurchaseDate)
	if err != nil {
		return "", err
	}
	return uc.CreatePurchase(ctx, scope, PurchaseInput{
		BaseID:              in.BaseID,
		AssetID:             in.AssetID,
		Quantity:            in.Quantity,
		UnitPrice:           in.UnitPrice,
		SupplierName:        in.SupplierName,
		PurchaseOrderNumber: in.PurchaseOrderNumber,
		PurchaseDate:        date,
		Notes:               in.Notes,
	}, meta)
}

// CreateTransferFromRequest adapta dto.CreateTransferRequest a CreateTransfer.
func (uc *MovementUseCase) CreateTransferFromRequest(ctx context.Context, scope access.Scope, in dto.CreateTransferRequest, meta RequestMeta) (string, error) {
	date, err := dto.ParseDate(in.TransferDate)
	if err != nil {
		return "", err
	}
	return uc.CreateTransfer(ctx, scope, TransferInput{
		SourceBaseID:        in.SourceBaseID,
		DestinationBaseID:   in.DestinationBaseID,
		AssetID:             in.AssetID,
		Quantity:            in.Quantity,
		TransferDate:        date,
		TransferOrderNumber: in.TransferOrderNumber,
		Reason:              in.Reason,
	}, meta)
}

// CreateAssignmentFromRequest adapta dto.CreateAssignmentRequest a CreateAssignment.
func (uc *MovementUseCase) CreateAssignmentFromRequest(ctx context.Context, scope access.Scope, in dto.CreateAssignmentRequest, meta RequestMeta) (string, error) {
	date, err := dto.ParseDate(in.AssignmentDate)
	if err != nil {
		return "", err
	}
	return uc.CreateAssignment(ctx, scope, AssignmentInput{
		BaseID:              in.BaseID,
		AssetID:             in.AssetID,
		Quantity:            in.Quantity,
		AssignedToPersonnel: in.AssignedToPersonnel,
		AssignedToUnit:      in.AssignedToUnit,
		AssignmentDate:      date,
		Purpose:             in.Purpose,
	}, meta)
}

// CreateExpenditureFromRequest adapta dto.CreateExpenditureRequest a CreateExpenditure.
func (uc *MovementUseCase) CreateExpenditureFromRequest(ctx context.Context, scope access.Scope, in dto.CreateExpenditureRequest, meta RequestMeta) (string, error) {
	date, err := dto.ParseDate(in.ExpenditureDate)
	if err != nil {
		return "", err
	}
	return uc.CreateExpenditure(ctx, scope, ExpenditureInput{
		BaseID:          in.BaseID,
		AssetID:         in.AssetID,
		AssignmentID:    in.AssignmentID,
		Quantity:        in.Quantity,
		ExpenditureDate: date,
		Reason:          in.Reason,
		OperationName:   in.OperationName,
		AuthorizedBy:    in.AuthorizedBy,
	}, meta)
}
