package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/military-assets-api/internal/application/dto"
	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/access"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

// QueryUseCase lecturas del ledger con alcance por base. Los listados vienen ordenados
// por fecha de negocio descendente y luego por creación.
type QueryUseCase struct {
	purchases    repository.PurchaseRepository
	transfers    repository.TransferRepository
	assignments  repository.AssignmentRepository
	expenditures repository.ExpenditureRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(
	purchases repository.PurchaseRepository,
	transfers repository.TransferRepository,
	assignments repository.AssignmentRepository,
	expenditures repository.ExpenditureRepository,
) *QueryUseCase {
	return &QueryUseCase{
		purchases:    purchases,
		transfers:    transfers,
		assignments:  assignments,
		expenditures: expenditures,
	}
}

// ListPurchases lista compras dentro del alcance del llamador.
func (uc *QueryUseCase) ListPurchases(ctx context.Context, scope access.Scope, q dto.MovementListQuery) ([]dto.PurchaseResponse, error) {
	filter, err := buildFilter(scope, q)
	if err != nil {
		return nil, err
	}
	items, err := uc.purchases.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPurchaseResponse(p))
	}
	return out, nil
}

// GetPurchase devuelve una compra; ErrForbidden si su base no está en el alcance.
func (uc *QueryUseCase) GetPurchase(ctx context.Context, scope access.Scope, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
	}
	if !scope.CanRead(p.BaseID) {
		return nil, fmt.Errorf("%w: compra fuera de su base", domain.ErrForbidden)
	}
	resp := toPurchaseResponse(p)
	return &resp, nil
}

// ListTransfers lista transferencias; el filtro de base coincide con origen o destino.
func (uc *QueryUseCase) ListTransfers(ctx context.Context, scope access.Scope, q dto.MovementListQuery) ([]dto.TransferResponse, error) {
	filter, err := buildFilter(scope, q)
	if err != nil {
		return nil, err
	}
	items, err := uc.transfers.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransferResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toTransferResponse(t))
	}
	return out, nil
}

// GetTransfer devuelve una transferencia visible si origen o destino es la base del llamador.
func (uc *QueryUseCase) GetTransfer(ctx context.Context, scope access.Scope, id string) (*dto.TransferResponse, error) {
	t, err := uc.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: transferencia %s", domain.ErrNotFound, id)
	}
	if !scope.CanRead(t.SourceBaseID, t.DestinationBaseID) {
		return nil, fmt.Errorf("%w: transferencia fuera de su base", domain.ErrForbidden)
	}
	resp := toTransferResponse(t)
	return &resp, nil
}

// ListAssignments lista asignaciones; admite filtros por personal y estado.
func (uc *QueryUseCase) ListAssignments(ctx context.Context, scope access.Scope, q dto.MovementListQuery) ([]dto.AssignmentResponse, error) {
	filter, err := buildFilter(scope, q)
	if err != nil {
		return nil, err
	}
	switch filter.Status {
	case "", entity.AssignmentStatusActive, entity.AssignmentStatusExpended:
	default:
		return nil, fmt.Errorf("%w: status inválido %q", domain.ErrInvalidInput, filter.Status)
	}
	items, err := uc.assignments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssignmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAssignmentResponse(a))
	}
	return out, nil
}

// GetAssignment devuelve una asignación.
func (uc *QueryUseCase) GetAssignment(ctx context.Context, scope access.Scope, id string) (*dto.AssignmentResponse, error) {
	a, err := uc.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: asignación %s", domain.ErrNotFound, id)
	}
	if !scope.CanRead(a.BaseID) {
		return nil, fmt.Errorf("%w: asignación fuera de su base", domain.ErrForbidden)
	}
	resp := toAssignmentResponse(a)
	return &resp, nil
}

// ListExpenditures lista gastos; admite filtro por nombre de operación.
func (uc *QueryUseCase) ListExpenditures(ctx context.Context, scope access.Scope, q dto.MovementListQuery) ([]dto.ExpenditureResponse, error) {
	filter, err := buildFilter(scope, q)
	if err != nil {
		return nil, err
	}
	items, err := uc.expenditures.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenditureResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toExpenditureResponse(e))
	}
	return out, nil
}

// GetExpenditure devuelve un gasto.
func (uc *QueryUseCase) GetExpenditure(ctx context.Context, scope access.Scope, id string) (*dto.ExpenditureResponse, error) {
	e, err := uc.expenditures.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: gasto %s", domain.ErrNotFound, id)
	}
	if !scope.CanRead(e.BaseID) {
		return nil, fmt.Errorf("%w: gasto fuera de su base", domain.ErrForbidden)
	}
	resp := toExpenditureResponse(e)
	return &resp, nil
}

func buildFilter(scope access.Scope, q dto.MovementListQuery) (repository.MovementFilter, error) {
	baseID, err := scope.ReadBase(strings.TrimSpace(q.BaseID))
	if err != nil {
		return repository.MovementFilter{}, err
	}
	from, err := dto.ParseOptionalDate(q.StartDate)
	if err != nil {
		return repository.MovementFilter{}, err
	}
	to, err := dto.ParseOptionalDate(q.EndDate)
	if err != nil {
		return repository.MovementFilter{}, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return repository.MovementFilter{}, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	f := repository.MovementFilter{
		BaseID:    baseID,
		AssetID:   strings.TrimSpace(q.AssetID),
		From:      from,
		To:        to,
		Personnel: strings.TrimSpace(q.Personnel),
		Operation: strings.TrimSpace(q.Operation),
		Status:    strings.TrimSpace(q.Status),
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	f.Normalize()
	return f, nil
}

func toPurchaseResponse(p *entity.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:                  p.ID,
		BaseID:              p.BaseID,
		BaseName:            p.BaseName,
		AssetID:             p.AssetID,
		AssetName:           p.AssetName,
		Category:            p.AssetCategory,
		Quantity:            p.Quantity,
		UnitPrice:           p.UnitPrice,
		TotalPrice:          p.TotalPrice,
		SupplierName:        p.SupplierName,
		PurchaseOrderNumber: p.PurchaseOrderNumber,
		PurchaseDate:        dto.FormatDate(p.PurchaseDate),
		Notes:               p.Notes,
		CreatedBy:           p.CreatedBy,
		CreatedByName:       p.CreatedByName,
		CreatedAt:           p.CreatedAt,
	}
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	return dto.TransferResponse{
		ID:                  t.ID,
		SourceBaseID:        t.SourceBaseID,
		SourceBaseName:      t.SourceBaseName,
		DestinationBaseID:   t.DestinationBaseID,
		DestinationBaseName: t.DestinationBaseName,
		AssetID:             t.AssetID,
		AssetName:           t.AssetName,
		Category:            t.AssetCategory,
		Quantity:            t.Quantity,
		TransferDate:        dto.FormatDate(t.TransferDate),
		TransferOrderNumber: t.TransferOrderNumber,
		Reason:              t.Reason,
		Status:              t.Status,
		CreatedBy:           t.CreatedBy,
		CreatedByName:       t.CreatedByName,
		CreatedAt:           t.CreatedAt,
	}
}

func toAssignmentResponse(a *entity.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:                  a.ID,
		BaseID:              a.BaseID,
		BaseName:            a.BaseName,
		AssetID:             a.AssetID,
		AssetName:           a.AssetName,
		Category:            a.AssetCategory,
		Quantity:            a.Quantity,
		AssignedToPersonnel: a.AssignedToPersonnel,
		AssignedToUnit:      a.AssignedToUnit,
		AssignmentDate:      dto.FormatDate(a.AssignmentDate),
		Purpose:             a.Purpose,
		Status:              a.Status,
		CreatedBy:           a.CreatedBy,
		CreatedByName:       a.CreatedByName,
		CreatedAt:           a.CreatedAt,
	}
}

func toExpenditureResponse(e *entity.Expenditure) dto.ExpenditureResponse {
	return dto.ExpenditureResponse{
		ID:                  e.ID,
		BaseID:              e.BaseID,
		BaseName:            e.BaseName,
		AssetID:             e.AssetID,
		AssetName:           e.AssetName,
		Category:            e.AssetCategory,
		AssignmentID:        e.AssignmentID,
		AssignedToPersonnel: e.AssignedToPersonnel,
		AssignedToUnit:      e.AssignedToUnit,
		Quantity:            e.Quantity,
		ExpenditureDate:     dto.FormatDate(e.ExpenditureDate),
		Reason:              e.Reason,
		OperationName:       e.OperationName,
		AuthorizedBy:        e.AuthorizedBy,
		CreatedBy:           e.CreatedBy,
		CreatedByName:       e.CreatedByName,
		CreatedAt:           e.CreatedAt,
	}
}
