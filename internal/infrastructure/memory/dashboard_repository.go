package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo agregados del tablero calculados sobre el estado en memoria.
type DashboardRepo struct{ acc accessor }

func (r *DashboardRepo) Summary(_ context.Context, f repository.DashboardFilter) ([]repository.InventorySummaryRow, error) {
	var rows []repository.InventorySummaryRow
	err := r.acc.read(func(st *state) error {
		for k, rec := range st.inventory {
			if f.BaseID != "" && k.baseID != f.BaseID {
				continue
			}
			if f.AssetID != "" && k.assetID != f.AssetID {
				continue
			}
			row := repository.InventorySummaryRow{
				BaseID:          k.baseID,
				BaseName:        baseName(st, k.baseID),
				AssetID:         k.assetID,
				OpeningBalance:  rec.OpeningBalance,
				CurrentQuantity: rec.CurrentQuantity,
				ClosingBalance:  rec.ClosingBalance,
			}
			if a, ok := st.assets[k.assetID]; ok {
				row.AssetName, row.Category, row.UnitOfMeasure = a.Name, a.Category, a.UnitOfMeasure
			}
			pairFilter := repository.DashboardFilter{BaseID: k.baseID, AssetID: k.assetID, From: f.From, To: f.To}
			t := totals(st, pairFilter)
			row.TotalPurchases, row.TransfersIn, row.TransfersOut = t.Purchases, t.TransfersIn, t.TransfersOut
			row.TotalAssigned, row.TotalExpended = decimal.Zero, decimal.Zero
			for _, a := range st.assignments {
				if a.BaseID == k.baseID && a.AssetID == k.assetID && inWindow(a.AssignmentDate, f.From, f.To) {
					row.TotalAssigned = row.TotalAssigned.Add(a.Quantity)
				}
			}
			for _, e := range st.expenditures {
				if e.BaseID == k.baseID && e.AssetID == k.assetID && inWindow(e.ExpenditureDate, f.From, f.To) {
					row.TotalExpended = row.TotalExpended.Add(e.Quantity)
				}
			}
			rows = append(rows, row)
		}
		return nil
	})
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].BaseName != rows[j].BaseName {
			return rows[i].BaseName < rows[j].BaseName
		}
		return rows[i].AssetName < rows[j].AssetName
	})
	return rows, err
}

func (r *DashboardRepo) MovementTotals(_ context.Context, f repository.DashboardFilter) (repository.MovementTotals, error) {
	var out repository.MovementTotals
	err := r.acc.read(func(st *state) error {
		out = totals(st, f)
		return nil
	})
	return out, err
}

func totals(st *state, f repository.DashboardFilter) repository.MovementTotals {
	t := repository.MovementTotals{Purchases: decimal.Zero, TransfersIn: decimal.Zero, TransfersOut: decimal.Zero}
	for _, p := range st.purchases {
		if p.BaseID == f.BaseID && p.AssetID == f.AssetID && inWindow(p.PurchaseDate, f.From, f.To) {
			t.Purchases = t.Purchases.Add(p.Quantity)
		}
	}
	for _, tr := range st.transfers {
		if tr.AssetID != f.AssetID || !inWindow(tr.TransferDate, f.From, f.To) {
			continue
		}
		if tr.DestinationBaseID == f.BaseID {
			t.TransfersIn = t.TransfersIn.Add(tr.Quantity)
		}
		if tr.SourceBaseID == f.BaseID {
			t.TransfersOut = t.TransfersOut.Add(tr.Quantity)
		}
	}
	return t
}
