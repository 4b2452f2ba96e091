// Package memory implementa los puertos de persistencia en memoria con el mismo
// contrato que PostgreSQL: débitos condicionados, transacciones todo-o-nada y las
// mismas reglas de integridad referencial. Se usa en tests y con STORE_DRIVER=memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/military-assets-api/internal/application/inventory"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
)

type pairKey struct {
	baseID  string
	assetID string
}

// state es una instantánea completa de los datos. Las transacciones trabajan sobre
// un clon y solo lo publican si fn termina sin error.
type state struct {
	bases        map[string]*entity.Base
	assets       map[string]*entity.Asset
	users        map[string]*entity.User
	inventory    map[pairKey]*entity.InventoryRecord
	purchases    []*entity.Purchase
	transfers    []*entity.Transfer
	assignments  []*entity.Assignment
	expenditures []*entity.Expenditure
	audit        []*entity.AuditLogEntry
	nextAuditID  int64
}

func newState() *state {
	return &state{
		bases:     make(map[string]*entity.Base),
		assets:    make(map[string]*entity.Asset),
		users:     make(map[string]*entity.User),
		inventory: make(map[pairKey]*entity.InventoryRecord),
	}
}

// clone copia lo que una transacción puede mutar (saldos y asignaciones) y las
// cabeceras de slices; los registros inmutables se comparten.
func (s *state) clone() *state {
	c := &state{
		bases:        s.bases,
		assets:       s.assets,
		users:        s.users,
		inventory:    make(map[pairKey]*entity.InventoryRecord, len(s.inventory)),
		purchases:    append([]*entity.Purchase(nil), s.purchases...),
		transfers:    append([]*entity.Transfer(nil), s.transfers...),
		assignments:  make([]*entity.Assignment, len(s.assignments)),
		expenditures: append([]*entity.Expenditure(nil), s.expenditures...),
		audit:        s.audit,
		nextAuditID:  s.nextAuditID,
	}
	for k, rec := range s.inventory {
		r := *rec
		c.inventory[k] = &r
	}
	for i, a := range s.assignments {
		cp := *a
		c.assignments[i] = &cp
	}
	return c
}

// accessor abstrae el acceso al estado: con locks (Store) o directo (dentro de Run).
type accessor interface {
	read(fn func(*state) error) error
	write(fn func(*state) error) error
}

// Store almacén en memoria seguro para uso concurrente. Las transacciones se serializan
// con el lock de escritura, lo que hace linealizables las mutaciones de saldo.
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

var _ inventory.TxRunner = (*Store)(nil)

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

func (s *Store) read(fn func(*state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

func (s *Store) write(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Run ejecuta fn sobre un clon del estado y lo publica solo si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	tx := txAccessor{st: work}
	if err := fn(s.repos(tx)); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) repos(acc accessor) inventory.TxRepos {
	return inventory.TxRepos{
		Inventory:    &InventoryRepo{acc: acc, now: s.now},
		Purchases:    &PurchaseRepo{acc: acc},
		Transfers:    &TransferRepo{acc: acc},
		Assignments:  &AssignmentRepo{acc: acc},
		Expenditures: &ExpenditureRepo{acc: acc},
	}
}

type txAccessor struct {
	st *state
}

func (t txAccessor) read(fn func(*state) error) error  { return fn(t.st) }
func (t txAccessor) write(fn func(*state) error) error { return fn(t.st) }

// Inventory repositorio de saldos fuera de transacción.
func (s *Store) Inventory() *InventoryRepo { return &InventoryRepo{acc: s, now: s.now} }

// Purchases repositorio de compras fuera de transacción.
func (s *Store) Purchases() *PurchaseRepo { return &PurchaseRepo{acc: s} }

// Transfers repositorio de transferencias fuera de transacción.
func (s *Store) Transfers() *TransferRepo { return &TransferRepo{acc: s} }

// Assignments repositorio de asignaciones fuera de transacción.
func (s *Store) Assignments() *AssignmentRepo { return &AssignmentRepo{acc: s} }

// Expenditures repositorio de gastos fuera de transacción.
func (s *Store) Expenditures() *ExpenditureRepo { return &ExpenditureRepo{acc: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{acc: s} }

// Catalog repositorio de bases y activos.
func (s *Store) Catalog() *CatalogRepo { return &CatalogRepo{acc: s, now: s.now} }

// AuditLogs repositorio del log de auditoría.
func (s *Store) AuditLogs() *AuditLogRepo { return &AuditLogRepo{acc: s} }

// Dashboard consultas del tablero.
func (s *Store) Dashboard() *DashboardRepo { return &DashboardRepo{acc: s} }
