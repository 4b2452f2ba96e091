package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/military-assets-api/internal/application/dto"
	"github.com/jhoicas/military-assets-api/internal/application/inventory"
	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/access"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
	"github.com/jhoicas/military-assets-api/internal/infrastructure/memory"
)

// ─── Fixtures ─────────────────────────────────────────────────────────────────

type recordingSink struct {
	mu      sync.Mutex
	entries []entity.AuditLogEntry
}

func (s *recordingSink) Record(_ context.Context, e entity.AuditLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

func (s *recordingSink) all() []entity.AuditLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.AuditLogEntry(nil), s.entries...)
}

type fixture struct {
	store     *memory.Store
	sink      *recordingSink
	uc        *inventory.MovementUseCase
	queries   *inventory.QueryUseCase
	admin     access.Scope
	commander access.Scope // base_commander de b1
	officer   access.Scope // logistics_officer de b1
	officerB2 access.Scope // logistics_officer de b2
}

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newFixture(t *testing.T, opts ...inventory.Option) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	cat := store.Catalog()
	require.NoError(t, cat.CreateBase(ctx, &entity.Base{ID: "b1", Name: "Alpha"}))
	require.NoError(t, cat.CreateBase(ctx, &entity.Base{ID: "b2", Name: "Bravo"}))
	require.NoError(t, cat.CreateBase(ctx, &entity.Base{ID: "b3", Name: "Charlie"}))
	require.NoError(t, cat.CreateAsset(ctx, &entity.Asset{ID: "a7", Name: "Rifle", Category: entity.AssetCategoryWeapon, UnitOfMeasure: "unit"}))

	users := []struct {
		id, role, base string
	}{
		{"u-admin", "admin", ""},
		{"u-cmd", "base_commander", "b1"},
		{"u-off", "logistics_officer", "b1"},
		{"u-off2", "logistics_officer", "b2"},
	}
	scopes := make(map[string]access.Scope)
	for _, u := range users {
		require.NoError(t, store.Users().Create(ctx, &entity.User{
			ID: u.id, Username: u.id, FullName: u.id, Role: u.role, BaseID: u.base, IsActive: true,
		}))
		s, err := access.Resolve(access.Identity{SubjectID: u.id, Role: access.Role(u.role), BaseID: u.base})
		require.NoError(t, err)
		scopes[u.id] = s
	}

	sink := &recordingSink{}
	return &fixture{
		store:     store,
		sink:      sink,
		uc:        inventory.NewMovementUseCase(store, store.Inventory(), sink, opts...),
		queries:   inventory.NewQueryUseCase(store.Purchases(), store.Transfers(), store.Assignments(), store.Expenditures()),
		admin:     scopes["u-admin"],
		commander: scopes["u-cmd"],
		officer:   scopes["u-off"],
		officerB2: scopes["u-off2"],
	}
}

func (f *fixture) balance(t *testing.T, baseID, assetID string) decimal.Decimal {
	t.Helper()
	rec, err := f.store.Inventory().Get(context.Background(), baseID, assetID)
	require.NoError(t, err)
	if rec == nil {
		return decimal.Zero
	}
	return rec.CurrentQuantity
}

func (f *fixture) purchase(t *testing.T, baseID string, q int64) string {
	t.Helper()
	id, err := f.uc.CreatePurchase(context.Background(), f.admin, inventory.PurchaseInput{
		BaseID: baseID, AssetID: "a7", Quantity: qty(q), PurchaseDate: day,
	}, inventory.RequestMeta{})
	require.NoError(t, err)
	return id
}

// ─── Escenario completo ──────────────────────────────────────────────────────

func TestScenario_CompraTransferenciaAsignacionGasto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.purchase(t, "b1", 10)
	assert.True(t, f.balance(t, "b1", "a7").Equal(qty(10)))

	_, err := f.uc.CreateTransfer(ctx, f.admin, inventory.TransferInput{
		SourceBaseID: "b1", DestinationBaseID: "b2", AssetID: "a7", Quantity: qty(4), TransferDate: day,
	}, inventory.RequestMeta{})
	require.NoError(t, err)
	assert.True(t, f.balance(t, "b1", "a7").Equal(qty(6)))
	assert.True(t, f.balance(t, "b2", "a7").Equal(qty(4)))

	asgID, err := f.uc.CreateAssignment(ctx, f.admin, inventory.AssignmentInput{
		BaseID: "b1", AssetID: "a7", Quantity: qty(3), AssignedToPersonnel: "Sgt. Díaz", AssignmentDate: day,
	}, inventory.RequestMeta{})
	require.NoError(t, err)
	assert.True(t, f.balance(t, "b1", "a7").Equal(qty(3)))

	asg, err := f.queries.GetAssignment(ctx, f.admin, asgID)
	require.NoError(t, err)
	assert.Equal(t, entity.AssignmentStatusActive, asg.Status)

	_, err = f.uc.CreateExpenditure(ctx, f.admin, inventory.ExpenditureInput{
		BaseID: "b1", AssetID: "a7", AssignmentID: asgID, Quantity: qty(3), ExpenditureDate: day, Reason: "entrenamiento",
	}, inventory.RequestMeta{})
	require.NoError(t, err)

	asg, err = f.queries.GetAssignment(ctx, f.admin, asgID)
	require.NoError(t, err)
	assert.Equal(t, entity.AssignmentStatusExpended, asg.Status)
	assert.True(t, f.balance(t, "b1", "a7").Equal(qty(3)), "el gasto no mueve saldo")

	rec, _ := f.store.Inventory().Get(ctx, "b1", "a7")
	assert.True(t, rec.ClosingBalance.Equal(qty(6)), "la asignación no reduce closing_balance")

	actions := []string{}
	for _, e := range f.sink.all() {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{
		entity.AuditActionCreatePurchase,
		entity.AuditActionCreateTransfer,
		entity.AuditActionCreateAssignment,
		entity.AuditActionCreateExpenditure,
	}, actions)
}

// ─── Saldo insuficiente y conflicto ──────────────────────────────────────────

func TestInsufficientBalance_TransferenciaYAsignacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "b1", 5)

	_, err := f.uc.CreateTransfer(ctx, f.admin, inventory.TransferInput{
		SourceBaseID: "b1", DestinationBaseID: "b2", AssetID: "a7", Quantity: qty(6), TransferDate: day,
	}, inventory.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	_, err = f.uc.CreateAssignment(ctx, f.admin, inventory.AssignmentInput{
		BaseID: "b1", AssetID: "a7", Quantity: qty(6), AssignedToPersonnel: "Cabo Ruiz", AssignmentDate: day,
	}, inventory.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	assert.True(t, f.balance(t, "b1", "a7").Equal(qty(5)))
	assert.True(t, f.balance(t, "b2", "a7").IsZero())
	assert.Len(t, f.sink.all(), 1, "solo la compra se audita")
}

func TestConcurrentTransfers_NuncaSaldoNegativo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "b1", 10)

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateTransfer(ctx, f.officer, inventory.TransferInput{
				SourceBaseID: "b1", DestinationBaseID: "b2", AssetID: "a7", Quantity: qty(1), TransferDate: day,
			}, inventory.RequestMeta{})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrInsufficientBalance) || errors.Is(err, domain.ErrConflict), err)
	}
	assert.Equal(t, 10, ok)
	assert.True(t, f.balance(t, "b1", "a7").IsZero())
	assert.True(t, f.balance(t, "b2", "a7").Equal(qty(10)))
}

// staleReader simula un pre-chequeo que vio saldo suficiente antes de que otro
// movimiento lo consumiera.
type staleReader struct{ qty decimal.Decimal }

func (r staleReader) Get(_ context.Context, baseID, assetID string) (*entity.InventoryRecord, error) {
	return &entity.InventoryRecord{BaseID: baseID, AssetID: assetID, CurrentQuantity: r.qty}, nil
}

func TestDebitoPerdidoTrasPrechequeo_EsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "b1", 2)

	uc := inventory.NewMovementUseCase(f.store, staleReader{qty: qty(100)}, f.sink)
	_, err := uc.CreateAssignment(ctx, f.admin, inventory.AssignmentInput{
		BaseID: "b1", AssetID: "a7", Quantity: qty(5), AssignedToPersonnel: "Tte. Gómez", AssignmentDate: day,
	}, inventory.RequestMeta{})

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.True(t, domain.IsRetryable(err))
	assert.True(t, f.balance(t, "b1", "a7").Equal(qty(2)))
}

// failingRunner hace fallar el insert del ledger después de mutar los dos saldos.
type failingRunner struct {
	inner inventory.TxRunner
}

type failingTransferRepo struct{ repository.TransferRepository }

func (failingTransferRepo) Create(context.Context, *entity.Transfer) error {
	return domain.ErrStoreUnavailable
}

func (r failingRunner) Run(ctx context.Context, fn func(inventory.TxRepos) error) error {
	return r.inner.Run(ctx, func(tx inventory.TxRepos) error {
		tx.Transfers = failingTransferRepo{tx.Transfers}
		return fn(tx)
	})
}

func TestTransfer_FalloDelInsertRevierteAmbosSaldos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "b1", 10)

	uc := inventory.NewMovementUseCase(failingRunner{inner: f.store}, f.store.Inventory(), f.sink)
	_, err := uc.CreateTransfer(ctx, f.admin, inventory.TransferInput{
		SourceBaseID: "b1", DestinationBaseID: "b2", AssetID: "a7", Quantity: qty(4), TransferDate: day,
	}, inventory.RequestMeta{})

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.True(t, f.balance(t, "b1", "a7").Equal(qty(10)))
	assert.True(t, f.balance(t, "b2", "a7").IsZero())
	assert.Len(t, f.sink.all(), 1, "un movimiento revertido no se audita")
}

func TestCancelacionDelRequest_NoInterrumpeLaTransaccion(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.uc.CreatePurchase(ctx, f.admin, inventory.PurchaseInput{
		BaseID: "b1", AssetID: "a7", Quantity: qty(3), PurchaseDate: day,
	}, inventory.RequestMeta{})
	require.NoError(t, err)
	assert.True(t, f.balance(t, "b1", "a7").Equal(qty(3)))
}

// ─── Ciclo de vida asignación / gasto ────────────────────────────────────────

func TestExpenditure_SegundoGastoSobreAsignacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "b1", 10)

	asgID, err := f.uc.CreateAssignment(ctx, f.commander, inventory.AssignmentInput{
		BaseID: "b1", AssetID: "a7", Quantity: qty(3), AssignedToPersonnel: "Sgt. Díaz", AssignmentDate: day,
	}, inventory.RequestMeta{})
	require.NoError(t, err)

	in := inventory.ExpenditureInput{
		BaseID: "b1", AssetID: "a7", AssignmentID: asgID, Quantity: qty(3), ExpenditureDate: day, Reason: "operación",
	}
	_, err = f.uc.CreateExpenditure(ctx, f.commander, in, inventory.RequestMeta{})
	require.NoError(t, err)

	_, err = f.uc.CreateExpenditure(ctx, f.commander, in, inventory.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.True(t, f.balance(t, "b1", "a7").Equal(qty(7)))
	list, err := f.queries.ListExpenditures(ctx, f.commander, dto.MovementListQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 1, "el segundo gasto no se persiste")
}

func TestExpenditure_AsignacionInexistenteOIncoherente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "b1", 10)
	f.purchase(t, "b2", 10)

	_, err := f.uc.CreateExpenditure(ctx, f.admin, inventory.ExpenditureInput{
		BaseID: "b1", AssetID: "a7", AssignmentID: "no-existe", Quantity: qty(1), ExpenditureDate: day, Reason: "x",
	}, inventory.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	asgID, err := f.uc.CreateAssignment(ctx, f.admin, inventory.AssignmentInput{
		BaseID: "b2", AssetID: "a7", Quantity: qty(2), AssignedToPersonnel: "Cabo Ruiz", AssignmentDate: day,
	}, inventory.RequestMeta{})
	require.NoError(t, err)

	_, err = f.uc.CreateExpenditure(ctx, f.admin, inventory.ExpenditureInput{
		BaseID: "b1", AssetID: "a7", AssignmentID: asgID, Quantity: qty(1), ExpenditureDate: day, Reason: "x",
	}, inventory.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	a, err := f.queries.GetAssignment(ctx, f.admin, asgID)
	require.NoError(t, err)
	assert.Equal(t, entity.AssignmentStatusActive, a.Status)
}

func TestExpenditure_SinAsignacionNoMueveSaldo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "b1", 10)

	_, err := f.uc.CreateExpenditure(ctx, f.commander, inventory.ExpenditureInput{
		BaseID: "b1", AssetID: "a7", Quantity: qty(4), ExpenditureDate: day, Reason: "baja", OperationName: "Tormenta",
	}, inventory.RequestMeta{})
	require.NoError(t, err)
	assert.True(t, f.balance(t, "b1", "a7").Equal(qty(10)))
}

// ─── Alcance ─────────────────────────────────────────────────────────────────

func TestScope_EscriturasFueraDeBase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "b2", 10)

	_, err := f.uc.CreatePurchase(ctx, f.commander, inventory.PurchaseInput{
		BaseID: "b2", AssetID: "a7", Quantity: qty(1), PurchaseDate: day,
	}, inventory.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.CreatePurchase(ctx, f.officer, inventory.PurchaseInput{
		BaseID: "b2", AssetID: "a7", Quantity: qty(1), PurchaseDate: day,
	}, inventory.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.CreateTransfer(ctx, f.officer, inventory.TransferInput{
		SourceBaseID: "b2", DestinationBaseID: "b3", AssetID: "a7", Quantity: qty(1), TransferDate: day,
	}, inventory.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.CreateTransfer(ctx, f.officerB2, inventory.TransferInput{
		SourceBaseID: "b2", DestinationBaseID: "b1", AssetID: "a7", Quantity: qty(1), TransferDate: day,
	}, inventory.RequestMeta{})
	assert.NoError(t, err, "basta con que un extremo sea la base propia")

	_, err = f.uc.CreateExpenditure(ctx, f.officer, inventory.ExpenditureInput{
		BaseID: "b1", AssetID: "a7", Quantity: qty(1), ExpenditureDate: day, Reason: "x",
	}, inventory.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrForbidden, "logistics_officer no registra gastos")
}

// ─── Idempotencia ────────────────────────────────────────────────────────────

func TestIdempotency_ClaveRepetidaYLiberacionEnFallo(t *testing.T) {
	guard := memory.NewIdempotencyGuard(time.Hour)
	f := newFixture(t, inventory.WithIdempotency(guard))
	ctx := context.Background()
	meta := inventory.RequestMeta{IdempotencyKey: "k-1"}
	in := inventory.PurchaseInput{BaseID: "b1", AssetID: "a7", Quantity: qty(2), PurchaseDate: day}

	first, err := f.uc.CreatePurchase(ctx, f.officer, in, meta)
	require.NoError(t, err)
	again, err := f.uc.CreatePurchase(ctx, f.officer, in, meta)
	require.NoError(t, err)
	assert.Equal(t, first, again, "la repetición devuelve el movimiento original")
	assert.True(t, f.balance(t, "b1", "a7").Equal(qty(2)))
	assert.Len(t, f.sink.all(), 1, "la repetición no se audita")

	// Clave reclamada por un request todavía en curso.
	ok, _, err := guard.Claim(ctx, f.officer.SubjectID()+":purchase:k-busy")
	require.NoError(t, err)
	require.True(t, ok)
	_, err = f.uc.CreatePurchase(ctx, f.officer, in, inventory.RequestMeta{IdempotencyKey: "k-busy"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Otro usuario puede usar la misma clave.
	_, err = f.uc.CreatePurchase(ctx, f.admin, in, meta)
	require.NoError(t, err)

	// Un movimiento fallido libera la clave.
	bad := inventory.PurchaseInput{BaseID: "b1", AssetID: "no-existe", Quantity: qty(2), PurchaseDate: day}
	retry := inventory.RequestMeta{IdempotencyKey: "k-2"}
	_, err = f.uc.CreatePurchase(ctx, f.officer, bad, retry)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.CreatePurchase(ctx, f.officer, in, retry)
	assert.NoError(t, err)
}

func TestIdempotency_TransferRepetidaTrasAgotarSaldo(t *testing.T) {
	guard := memory.NewIdempotencyGuard(time.Hour)
	f := newFixture(t, inventory.WithIdempotency(guard))
	ctx := context.Background()
	_, err := f.uc.CreatePurchase(ctx, f.admin, inventory.PurchaseInput{BaseID: "b1", AssetID: "a7", Quantity: qty(3), PurchaseDate: day}, inventory.RequestMeta{})
	require.NoError(t, err)

	meta := inventory.RequestMeta{IdempotencyKey: "tr-1"}
	in := inventory.TransferInput{SourceBaseID: "b1", DestinationBaseID: "b2", AssetID: "a7", Quantity: qty(3), TransferDate: day}
	first, err := f.uc.CreateTransfer(ctx, f.admin, in, meta)
	require.NoError(t, err)

	// El saldo de origen ya es 0; la repetición no vuelve a validar disponibilidad.
	again, err := f.uc.CreateTransfer(ctx, f.admin, in, meta)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.True(t, f.balance(t, "b2", "a7").Equal(qty(3)))
}

// ─── Adaptadores de request ──────────────────────────────────────────────────

func TestCreatePurchaseFromRequest(t *testing.T) {
	f := newFixture(t)
	price := decimal.RequireFromString("12.50")

	id, err := f.uc.CreatePurchaseFromRequest(context.Background(), f.officer, dto.CreatePurchaseRequest{
		BaseID: "b1", AssetID: "a7", Quantity: qty(4), UnitPrice: &price, PurchaseDate: "2024-03-01",
	}, inventory.RequestMeta{Origin: "10.0.0.1"})
	require.NoError(t, err)

	p, err := f.queries.GetPurchase(context.Background(), f.officer, id)
	require.NoError(t, err)
	require.NotNil(t, p.TotalPrice)
	assert.Equal(t, "50", p.TotalPrice.String())
	assert.Equal(t, "2024-03-01", p.PurchaseDate)
	assert.Equal(t, "Alpha", p.BaseName)
	assert.Equal(t, "10.0.0.1", f.sink.all()[0].IPAddress)

	_, err = f.uc.CreatePurchaseFromRequest(context.Background(), f.officer, dto.CreatePurchaseRequest{
		BaseID: "b1", AssetID: "a7", Quantity: qty(4), PurchaseDate: "01/03/2024",
	}, inventory.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreatePurchase_SaldoFueraDeRango(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	big := decimal.RequireFromString("90000000000000")
	in := inventory.PurchaseInput{BaseID: "b1", AssetID: "a7", Quantity: big, PurchaseDate: day}

	_, err := f.uc.CreatePurchase(ctx, f.admin, in, inventory.RequestMeta{})
	require.NoError(t, err)

	_, err = f.uc.CreatePurchase(ctx, f.admin, in, inventory.RequestMeta{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientBalance)

	rec, err := f.store.Inventory().Get(ctx, "b1", "a7")
	require.NoError(t, err)
	assert.True(t, rec.CurrentQuantity.Equal(big), "el segundo crédito no debe aplicarse")
}
