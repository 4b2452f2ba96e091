package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/military-assets-api/internal/application/dto"
	"github.com/jhoicas/military-assets-api/internal/application/inventory"
	"github.com/jhoicas/military-assets-api/internal/domain"
)

func TestListPurchases_AlcancePorBase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "b1", 1)
	f.purchase(t, "b2", 2)

	mine, err := f.queries.ListPurchases(ctx, f.commander, dto.MovementListQuery{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "b1", mine[0].BaseID)

	_, err = f.queries.ListPurchases(ctx, f.commander, dto.MovementListQuery{BaseID: "b2"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	all, err := f.queries.ListPurchases(ctx, f.admin, dto.MovementListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetPurchase_FueraDeAlcanceYNoEncontrado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.purchase(t, "b2", 1)

	_, err := f.queries.GetPurchase(ctx, f.commander, id)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.queries.GetPurchase(ctx, f.admin, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTransfers_OrigenODestino(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "b2", 10)

	id, err := f.uc.CreateTransfer(ctx, f.admin, inventory.TransferInput{
		SourceBaseID: "b2", DestinationBaseID: "b1", AssetID: "a7", Quantity: qty(3), TransferDate: day,
	}, inventory.RequestMeta{})
	require.NoError(t, err)
	_, err = f.uc.CreateTransfer(ctx, f.admin, inventory.TransferInput{
		SourceBaseID: "b2", DestinationBaseID: "b3", AssetID: "a7", Quantity: qty(1), TransferDate: day,
	}, inventory.RequestMeta{})
	require.NoError(t, err)

	list, err := f.queries.ListTransfers(ctx, f.officer, dto.MovementListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, "Bravo", list[0].SourceBaseName)
	assert.Equal(t, "completed", list[0].Status)

	got, err := f.queries.GetTransfer(ctx, f.officer, id)
	require.NoError(t, err, "el destino es la base del llamador")
	assert.Equal(t, "Alpha", got.DestinationBaseName)
}

func TestListAssignments_OrdenYFiltros(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, "b1", 10)

	create := func(person string, date string) string {
		d, err := dto.ParseDate(date)
		require.NoError(t, err)
		id, err := f.uc.CreateAssignment(ctx, f.officer, inventory.AssignmentInput{
			BaseID: "b1", AssetID: "a7", Quantity: qty(1), AssignedToPersonnel: person, AssignmentDate: d,
		}, inventory.RequestMeta{})
		require.NoError(t, err)
		return id
	}
	older := create("Sgt. Díaz", "2024-01-10")
	newer := create("Cabo Ruiz", "2024-02-10")
	sameDayLater := create("Sgt. Pérez", "2024-02-10")

	list, err := f.queries.ListAssignments(ctx, f.officer, dto.MovementListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{sameDayLater, newer, older}, []string{list[0].ID, list[1].ID, list[2].ID})

	list, err = f.queries.ListAssignments(ctx, f.officer, dto.MovementListQuery{Personnel: "sgt"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = f.queries.ListAssignments(ctx, f.officer, dto.MovementListQuery{StartDate: "2024-02-01", EndDate: "2024-02-10"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = f.queries.ListAssignments(ctx, f.officer, dto.MovementListQuery{Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, older, list[0].ID)

	_, err = f.queries.ListAssignments(ctx, f.officer, dto.MovementListQuery{Status: "lost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.queries.ListAssignments(ctx, f.officer, dto.MovementListQuery{StartDate: "2024-03-01", EndDate: "2024-02-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListExpenditures_FiltroOperacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, op := range []string{"Tormenta del Desierto", "Ejercicio Norte"} {
		_, err := f.uc.CreateExpenditure(ctx, f.commander, inventory.ExpenditureInput{
			BaseID: "b1", AssetID: "a7", Quantity: qty(1), ExpenditureDate: day, Reason: "uso", OperationName: op,
		}, inventory.RequestMeta{})
		require.NoError(t, err)
	}

	list, err := f.queries.ListExpenditures(ctx, f.admin, dto.MovementListQuery{Operation: "tormenta"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Tormenta del Desierto", list[0].OperationName)
	assert.Equal(t, "u-cmd", list[0].CreatedByName)
}

func TestListPurchases_SinLimiteDevuelveTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 120; i++ {
		f.purchase(t, "b1", 1)
	}

	all, err := f.queries.ListPurchases(ctx, f.admin, dto.MovementListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 120)
	assert.Equal(t, 120, dto.NewListResponse(all).Total)

	page, err := f.queries.ListPurchases(ctx, f.admin, dto.MovementListQuery{Limit: 50, Offset: 100})
	require.NoError(t, err)
	assert.Len(t, page, 20)
}
