// Package inventory contiene el motor de movimientos: validación, aplicación atómica
// de cambios de saldo y registro en el ledger, más las consultas con alcance por base.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/access"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/pkg/logger"
)

// RequestMeta datos del request que no forman parte del movimiento.
type RequestMeta struct {
	Origin         string // IP del cliente, va al log de auditoría
	IdempotencyKey string // opcional
}

// MovementUseCase ejecuta cada movimiento como una unidad atómica: valida, muta el saldo
// y agrega el registro al ledger dentro de una transacción (TxRunner). Tras el commit
// notifica al AuditSink.
type MovementUseCase struct {
	txRunner    TxRunner
	validator   *MovementValidator
	audit       AuditSink
	idempotency IdempotencyGuard
	log         *logger.Logger
	now         func() time.Time
}

// Option configura dependencias opcionales del caso de uso.
type Option func(*MovementUseCase)

// WithIdempotency activa la reserva de claves Idempotency-Key.
func WithIdempotency(g IdempotencyGuard) Option {
	return func(uc *MovementUseCase) { uc.idempotency = g }
}

// WithLogger fija el logger.
func WithLogger(l *logger.Logger) Option {
	return func(uc *MovementUseCase) { uc.log = l }
}

// WithClock fija el reloj usado para created_at.
func WithClock(now func() time.Time) Option {
	return func(uc *MovementUseCase) { uc.now = now }
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner TxRunner, balances BalanceReader, audit AuditSink, opts ...Option) *MovementUseCase {
	uc := &MovementUseCase{
		txRunner:  txRunner,
		validator: NewMovementValidator(balances),
		audit:     audit,
		log:       logger.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// CreatePurchase acredita la cantidad en la base y registra la compra.
func (uc *MovementUseCase) CreatePurchase(ctx context.Context, scope access.Scope, in PurchaseInput, meta RequestMeta) (string, error) {
	p := &entity.Purchase{
		ID:                  uuid.New().String(),
		BaseID:              in.BaseID,
		AssetID:             in.AssetID,
		Quantity:            in.Quantity,
		UnitPrice:           in.UnitPrice,
		SupplierName:        in.SupplierName,
		PurchaseOrderNumber: in.PurchaseOrderNumber,
		PurchaseDate:        in.PurchaseDate,
		Notes:               in.Notes,
		CreatedBy:           scope.SubjectID(),
		CreatedAt:           uc.now(),
	}
	if in.UnitPrice != nil {
		total := in.UnitPrice.Mul(in.Quantity)
		p.TotalPrice = &total
	}

	id, fresh, err := uc.execute(ctx, scope, meta, movement{
		kind: "purchase",
		id:   p.ID,
		validate: func(ctx context.Context) error {
			return uc.validator.ValidatePurchase(ctx, scope, in)
		},
		apply: func(ctx context.Context, tx TxRepos) error {
			if _, err := tx.Inventory.TryAdjust(ctx, entity.Adjustment{
				BaseID: in.BaseID, AssetID: in.AssetID, Delta: in.Quantity,
			}); err != nil {
				return err
			}
			return tx.Purchases.Create(ctx, p)
		},
	})
	if err != nil || !fresh {
		return id, err
	}

	uc.record(ctx, scope, meta, entity.AuditActionCreatePurchase, entity.AuditEntityPurchase, p.ID, map[string]any{
		"base_id":  p.BaseID,
		"asset_id": p.AssetID,
		"quantity": p.Quantity.String(),
		"supplier": p.SupplierName,
	})
	return p.ID, nil
}

// CreateTransfer debita el origen y acredita el destino en la misma transacción.
func (uc *MovementUseCase) CreateTransfer(ctx context.Context, scope access.Scope, in TransferInput, meta RequestMeta) (string, error) {
	t := &entity.Transfer{
		ID:                  uuid.New().String(),
		SourceBaseID:        in.SourceBaseID,
		DestinationBaseID:   in.DestinationBaseID,
		AssetID:             in.AssetID,
		Quantity:            in.Quantity,
		TransferDate:        in.TransferDate,
		TransferOrderNumber: in.TransferOrderNumber,
		Reason:              in.Reason,
		Status:              entity.TransferStatusCompleted,
		CreatedBy:           scope.SubjectID(),
		CreatedAt:           uc.now(),
	}

	id, fresh, err := uc.execute(ctx, scope, meta, movement{
		kind: "transfer",
		id:   t.ID,
		validate: func(ctx context.Context) error {
			return uc.validator.ValidateTransfer(ctx, scope, in)
		},
		apply: func(ctx context.Context, tx TxRepos) error {
			if err := debit(ctx, tx, entity.Adjustment{
				BaseID: in.SourceBaseID, AssetID: in.AssetID, Delta: in.Quantity.Neg(),
			}); err != nil {
				return err
			}
			if _, err := tx.Inventory.TryAdjust(ctx, entity.Adjustment{
				BaseID: in.DestinationBaseID, AssetID: in.AssetID, Delta: in.Quantity,
			}); err != nil {
				return err
			}
			return tx.Transfers.Create(ctx, t)
		},
	})
	if err != nil || !fresh {
		return id, err
	}

	uc.record(ctx, scope, meta, entity.AuditActionCreateTransfer, entity.AuditEntityTransfer, t.ID, map[string]any{
		"source_base_id":      t.SourceBaseID,
		"destination_base_id": t.DestinationBaseID,
		"asset_id":            t.AssetID,
		"quantity":            t.Quantity.String(),
	})
	return t.ID, nil
}

// CreateAssignment retira la cantidad disponible de la base y registra la asignación activa.
func (uc *MovementUseCase) CreateAssignment(ctx context.Context, scope access.Scope, in AssignmentInput, meta RequestMeta) (string, error) {
	a := &entity.Assignment{
		ID:                  uuid.New().String(),
		BaseID:              in.BaseID,
		AssetID:             in.AssetID,
		Quantity:            in.Quantity,
		AssignedToPersonnel: in.AssignedToPersonnel,
		AssignedToUnit:      in.AssignedToUnit,
		AssignmentDate:      in.AssignmentDate,
		Purpose:             in.Purpose,
		Status:              entity.AssignmentStatusActive,
		CreatedBy:           scope.SubjectID(),
		CreatedAt:           uc.now(),
	}

	id, fresh, err := uc.execute(ctx, scope, meta, movement{
		kind: "assignment",
		id:   a.ID,
		validate: func(ctx context.Context) error {
			return uc.validator.ValidateAssignment(ctx, scope, in)
		},
		apply: func(ctx context.Context, tx TxRepos) error {
			if err := debit(ctx, tx, entity.Adjustment{
				BaseID: in.BaseID, AssetID: in.AssetID, Delta: in.Quantity.Neg(), CurrentOnly: true,
			}); err != nil {
				return err
			}
			return tx.Assignments.Create(ctx, a)
		},
	})
	if err != nil || !fresh {
		return id, err
	}

	uc.record(ctx, scope, meta, entity.AuditActionCreateAssignment, entity.AuditEntityAssignment, a.ID, map[string]any{
		"base_id":     a.BaseID,
		"asset_id":    a.AssetID,
		"quantity":    a.Quantity.String(),
		"assigned_to": a.AssignedToPersonnel,
	})
	return a.ID, nil
}

// CreateExpenditure registra el gasto y, si referencia una asignación, la pasa a expended.
// No mueve saldos.
func (uc *MovementUseCase) CreateExpenditure(ctx context.Context, scope access.Scope, in ExpenditureInput, meta RequestMeta) (string, error) {
	e := &entity.Expenditure{
		ID:              uuid.New().String(),
		BaseID:          in.BaseID,
		AssetID:         in.AssetID,
		Quantity:        in.Quantity,
		ExpenditureDate: in.ExpenditureDate,
		Reason:          in.Reason,
		OperationName:   in.OperationName,
		AuthorizedBy:    in.AuthorizedBy,
		CreatedBy:       scope.SubjectID(),
		CreatedAt:       uc.now(),
	}
	if in.AssignmentID != "" {
		id := in.AssignmentID
		e.AssignmentID = &id
	}

	id, fresh, err := uc.execute(ctx, scope, meta, movement{
		kind: "expenditure",
		id:   e.ID,
		validate: func(ctx context.Context) error {
			return uc.validator.ValidateExpenditure(ctx, scope, in)
		},
		apply: func(ctx context.Context, tx TxRepos) error {
			if e.AssignmentID != nil {
				if err := expendAssignment(ctx, tx, *e.AssignmentID, in); err != nil {
					return err
				}
			}
			return tx.Expenditures.Create(ctx, e)
		},
	})
	if err != nil || !fresh {
		return id, err
	}

	details := map[string]any{
		"base_id":  e.BaseID,
		"asset_id": e.AssetID,
		"quantity": e.Quantity.String(),
		"reason":   e.Reason,
	}
	if e.AssignmentID != nil {
		details["assignment_id"] = *e.AssignmentID
	}
	uc.record(ctx, scope, meta, entity.AuditActionCreateExpenditure, entity.AuditEntityExpenditure, e.ID, details)
	return e.ID, nil
}

// movement describe una creación: validate corre fuera de la transacción y apply dentro.
type movement struct {
	kind     string
	id       string
	validate func(context.Context) error
	apply    func(context.Context, TxRepos) error
}

// execute reserva la clave de idempotencia (si hay), valida y corre apply en una
// transacción. Devuelve el id del movimiento y fresh=false cuando la clave ya
// completó un movimiento anterior, cuyo id se devuelve sin repetir nada.
// La transacción no hereda la cancelación del request: una vez iniciada termina en
// commit o rollback completo.
func (uc *MovementUseCase) execute(ctx context.Context, scope access.Scope, meta RequestMeta, m movement) (string, bool, error) {
	key := ""
	if uc.idempotency != nil && meta.IdempotencyKey != "" {
		key = fmt.Sprintf("%s:%s:%s", scope.SubjectID(), m.kind, meta.IdempotencyKey)
		claimed, createdID, err := uc.idempotency.Claim(ctx, key)
		if err != nil {
			return "", false, fmt.Errorf("%w: idempotencia: %v", domain.ErrStoreUnavailable, err)
		}
		if !claimed {
			if createdID == "" {
				return "", false, fmt.Errorf("%w: Idempotency-Key en curso", domain.ErrDuplicate)
			}
			uc.log.Info().Str("kind", m.kind).Str("key", key).Str("created_id", createdID).Msg("request repetida, se devuelve el movimiento original")
			return createdID, false, nil
		}
	}

	txCtx := context.WithoutCancel(ctx)
	err := m.validate(ctx)
	if err == nil {
		err = uc.txRunner.Run(txCtx, func(tx TxRepos) error {
			return m.apply(txCtx, tx)
		})
	}
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.log.Warn().Str("kind", m.kind).Str("user_id", scope.SubjectID()).Err(err).Msg("movimiento en conflicto")
		}
		if key != "" {
			if rerr := uc.idempotency.Release(txCtx, key); rerr != nil {
				uc.log.Error().Err(rerr).Str("key", key).Msg("no se pudo liberar la clave de idempotencia")
			}
		}
		return "", false, err
	}

	if key != "" {
		if cerr := uc.idempotency.Complete(txCtx, key, m.id); cerr != nil {
			uc.log.Error().Err(cerr).Str("key", key).Msg("no se pudo completar la clave de idempotencia")
		}
	}
	return m.id, true, nil
}

func (uc *MovementUseCase) record(ctx context.Context, scope access.Scope, meta RequestMeta, action, entityType, entityID string, details map[string]any) {
	if uc.audit == nil {
		return
	}
	uc.audit.Record(context.WithoutCancel(ctx), entity.AuditLogEntry{
		UserID:     scope.SubjectID(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IPAddress:  meta.Origin,
		CreatedAt:  uc.now(),
	})
}

// debit aplica un débito ya pre-validado. Si el débito condicionado no afecta filas,
// otro movimiento consumió el saldo después del pre-chequeo: es un Conflict.
func debit(ctx context.Context, tx TxRepos, adj entity.Adjustment) error {
	_, err := tx.Inventory.TryAdjust(ctx, adj)
	if errors.Is(err, domain.ErrInsufficientBalance) {
		return fmt.Errorf("%w: el saldo de %s/%s cambió durante la operación", domain.ErrConflict, adj.BaseID, adj.AssetID)
	}
	return err
}

func expendAssignment(ctx context.Context, tx TxRepos, assignmentID string, in ExpenditureInput) error {
	a, err := tx.Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("%w: asignación %s", domain.ErrNotFound, assignmentID)
	}
	if a.BaseID != in.BaseID || a.AssetID != in.AssetID {
		return fmt.Errorf("%w: la asignación no corresponde a la base y activo del gasto", domain.ErrInvalidInput)
	}
	if in.Quantity.GreaterThan(a.Quantity) {
		return fmt.Errorf("%w: cantidad %s supera la asignada %s", domain.ErrInvalidInput, in.Quantity, a.Quantity)
	}
	if a.Status == entity.AssignmentStatusExpended {
		return fmt.Errorf("%w: la asignación ya fue gastada", domain.ErrConflict)
	}
	ok, err := tx.Assignments.MarkExpended(ctx, assignmentID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: la asignación ya fue gastada", domain.ErrConflict)
	}
	return nil
}
