package inventory

import (
	"context"

	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Inventory    repository.InventoryRepository
	Purchases    repository.PurchaseRepository
	Transfers    repository.TransferRepository
	Assignments  repository.AssignmentRepository
	Expenditures repository.ExpenditureRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback completo; si no, commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// AuditSink recibe la notificación de cada movimiento confirmado. Es fire-and-forget:
// no devuelve error y su fallo nunca afecta al movimiento.
type AuditSink interface {
	Record(ctx context.Context, entry entity.AuditLogEntry)
}

// IdempotencyGuard reserva claves de idempotencia de requests de creación.
type IdempotencyGuard interface {
	// Claim reserva la clave. Si ya estaba reservada devuelve claimed=false y, cuando
	// el movimiento original terminó, su id en createdID; "" = todavía en curso.
	Claim(ctx context.Context, key string) (claimed bool, createdID string, err error)
	// Complete asocia a la clave el id del movimiento confirmado.
	Complete(ctx context.Context, key, createdID string) error
	// Release libera la clave para que el cliente pueda reintentar.
	Release(ctx context.Context, key string) error
}

// BalanceReader lectura de saldos fuera de transacción, usada por el pre-chequeo de disponibilidad.
type BalanceReader interface {
	Get(ctx context.Context, baseID, assetID string) (*entity.InventoryRecord, error)
}
