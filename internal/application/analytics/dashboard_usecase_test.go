package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/military-assets-api/internal/application/analytics"
	"github.com/jhoicas/military-assets-api/internal/application/dto"
	"github.com/jhoicas/military-assets-api/internal/application/inventory"
	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/access"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/infrastructure/memory"
)

type captureGenerator struct {
	got analytics.InventoryReport
}

func (g *captureGenerator) GenerateInventoryReport(_ context.Context, r analytics.InventoryReport) ([]byte, error) {
	g.got = r
	return []byte("%PDF-fake"), nil
}

func d(s string) time.Time {
	t, err := dto.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func n(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// setup: compra 10 en b1 (enero) y 5 en b1 (marzo), transfiere 4 b1->b2 (febrero),
// asigna 3 en b1 (febrero) y gasta 2 (febrero).
func setup(t *testing.T) (*memory.Store, access.Scope, access.Scope) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Catalog().CreateBase(ctx, &entity.Base{ID: "b1", Name: "Alpha"}))
	require.NoError(t, store.Catalog().CreateBase(ctx, &entity.Base{ID: "b2", Name: "Bravo"}))
	require.NoError(t, store.Catalog().CreateAsset(ctx, &entity.Asset{ID: "a7", Name: "Rifle", Category: "weapon", UnitOfMeasure: "unit"}))
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u1", Username: "admin", Role: "admin", IsActive: true}))

	admin, err := access.Resolve(access.Identity{SubjectID: "u1", Role: access.RoleAdmin})
	require.NoError(t, err)
	commanderB2, err := access.Resolve(access.Identity{SubjectID: "u2", Role: access.RoleBaseCommander, BaseID: "b2"})
	require.NoError(t, err)

	uc := inventory.NewMovementUseCase(store, store.Inventory(), nil)
	meta := inventory.RequestMeta{}
	_, err = uc.CreatePurchase(ctx, admin, inventory.PurchaseInput{BaseID: "b1", AssetID: "a7", Quantity: n(10), PurchaseDate: d("2024-01-15")}, meta)
	require.NoError(t, err)
	_, err = uc.CreatePurchase(ctx, admin, inventory.PurchaseInput{BaseID: "b1", AssetID: "a7", Quantity: n(5), PurchaseDate: d("2024-03-15")}, meta)
	require.NoError(t, err)
	_, err = uc.CreateTransfer(ctx, admin, inventory.TransferInput{SourceBaseID: "b1", DestinationBaseID: "b2", AssetID: "a7", Quantity: n(4), TransferDate: d("2024-02-10")}, meta)
	require.NoError(t, err)
	asg, err := uc.CreateAssignment(ctx, admin, inventory.AssignmentInput{BaseID: "b1", AssetID: "a7", Quantity: n(3), AssignedToPersonnel: "Sgt. Díaz", AssignmentDate: d("2024-02-11")}, meta)
	require.NoError(t, err)
	_, err = uc.CreateExpenditure(ctx, admin, inventory.ExpenditureInput{BaseID: "b1", AssetID: "a7", AssignmentID: asg, Quantity: n(2), ExpenditureDate: d("2024-02-12"), Reason: "uso"}, meta)
	require.NoError(t, err)
	return store, admin, commanderB2
}

func TestSummary_TotalesYMovimientoNeto(t *testing.T) {
	store, admin, _ := setup(t)
	uc := analytics.NewDashboardUseCase(store.Dashboard(), nil)

	rows, err := uc.Summary(context.Background(), admin, dto.DashboardQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	alpha := rows[0]
	assert.Equal(t, "Alpha", alpha.BaseName)
	assert.True(t, alpha.CurrentQuantity.Equal(n(8)), alpha.CurrentQuantity.String())
	assert.True(t, alpha.ClosingBalance.Equal(n(11)))
	assert.True(t, alpha.TotalPurchases.Equal(n(15)))
	assert.True(t, alpha.TransfersOut.Equal(n(4)))
	assert.True(t, alpha.TotalAssigned.Equal(n(3)))
	assert.True(t, alpha.TotalExpended.Equal(n(2)))
	assert.True(t, alpha.NetMovement.Equal(n(11)))

	bravo := rows[1]
	assert.True(t, bravo.TransfersIn.Equal(n(4)))
	assert.True(t, bravo.NetMovement.Equal(n(4)))
}

func TestSummary_VentanaDeFechasYAlcance(t *testing.T) {
	store, admin, commanderB2 := setup(t)
	uc := analytics.NewDashboardUseCase(store.Dashboard(), nil)
	ctx := context.Background()

	rows, err := uc.Summary(ctx, admin, dto.DashboardQuery{BaseID: "b1", StartDate: "2024-02-01", EndDate: "2024-02-29"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].TotalPurchases.IsZero())
	assert.True(t, rows[0].NetMovement.Equal(n(-4)))

	rows, err = uc.Summary(ctx, commanderB2, dto.DashboardQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b2", rows[0].BaseID)

	_, err = uc.Summary(ctx, commanderB2, dto.DashboardQuery{BaseID: "b1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMovementBreakdown(t *testing.T) {
	store, admin, commanderB2 := setup(t)
	uc := analytics.NewDashboardUseCase(store.Dashboard(), nil)
	ctx := context.Background()

	_, err := uc.MovementBreakdown(ctx, admin, dto.DashboardQuery{BaseID: "b1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.MovementBreakdown(ctx, admin, dto.DashboardQuery{BaseID: "b1", AssetID: "a7"})
	require.NoError(t, err)
	assert.True(t, got.Purchases.Equal(n(15)))
	assert.True(t, got.TransfersOut.Equal(n(4)))
	assert.True(t, got.NetMovement.Equal(n(11)))

	_, err = uc.MovementBreakdown(ctx, commanderB2, dto.DashboardQuery{BaseID: "b1", AssetID: "a7"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReportPDF_UsaFiltroResuelto(t *testing.T) {
	store, _, commanderB2 := setup(t)
	gen := &captureGenerator{}
	uc := analytics.NewDashboardUseCase(store.Dashboard(), gen)

	out, err := uc.ReportPDF(context.Background(), commanderB2, dto.DashboardQuery{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))
	assert.Equal(t, "b2", gen.got.BaseID)
	assert.Equal(t, "u2", gen.got.GeneratedBy)
	assert.Len(t, gen.got.Rows, 1)
}
