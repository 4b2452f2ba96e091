package postgres

import (
	"context"

	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas read-only del tablero. Cada total es una subconsulta
// correlacionada por (base, activo) para no multiplicar filas entre tablas.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador del tablero.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// En ambas consultas $1 y $2 son la ventana de fechas (NULL = sin límite).
const summaryQuery = `
	SELECT i.base_id, b.name, i.asset_id, a.name, a.category, a.unit_of_measure,
	       i.opening_balance, i.current_quantity, i.closing_balance,
	       (SELECT COALESCE(SUM(p.quantity), 0) FROM purchases p
	         WHERE p.base_id = i.base_id AND p.asset_id = i.asset_id
	           AND ($1::date IS NULL OR p.purchase_date >= $1::date) AND ($2::date IS NULL OR p.purchase_date <= $2::date)),
	       (SELECT COALESCE(SUM(t.quantity), 0) FROM transfers t
	         WHERE t.destination_base_id = i.base_id AND t.asset_id = i.asset_id
	           AND ($1::date IS NULL OR t.transfer_date >= $1::date) AND ($2::date IS NULL OR t.transfer_date <= $2::date)),
	       (SELECT COALESCE(SUM(t.quantity), 0) FROM transfers t
	         WHERE t.source_base_id = i.base_id AND t.asset_id = i.asset_id
	           AND ($1::date IS NULL OR t.transfer_date >= $1::date) AND ($2::date IS NULL OR t.transfer_date <= $2::date)),
	       (SELECT COALESCE(SUM(asn.quantity), 0) FROM assignments asn
	         WHERE asn.base_id = i.base_id AND asn.asset_id = i.asset_id
	           AND ($1::date IS NULL OR asn.assignment_date >= $1::date) AND ($2::date IS NULL OR asn.assignment_date <= $2::date)),
	       (SELECT COALESCE(SUM(e.quantity), 0) FROM expenditures e
	         WHERE e.base_id = i.base_id AND e.asset_id = i.asset_id
	           AND ($1::date IS NULL OR e.expenditure_date >= $1::date) AND ($2::date IS NULL OR e.expenditure_date <= $2::date))
	FROM inventory i
	JOIN bases b ON b.id = i.base_id
	JOIN assets a ON a.id = i.asset_id
	WHERE ($3::text = '' OR i.base_id = $3) AND ($4::text = '' OR i.asset_id = $4)
	ORDER BY b.name, a.name`

// Summary una fila por registro de inventario que pasa el filtro.
func (r *DashboardRepo) Summary(ctx context.Context, f repository.DashboardFilter) ([]repository.InventorySummaryRow, error) {
	rows, err := r.q.Query(ctx, summaryQuery, f.From, f.To, f.BaseID, f.AssetID)
	if err != nil {
		return nil, classify("dashboard summary", err)
	}
	defer rows.Close()

	var out []repository.InventorySummaryRow
	for rows.Next() {
		var row repository.InventorySummaryRow
		if err := rows.Scan(
			&row.BaseID, &row.BaseName, &row.AssetID, &row.AssetName, &row.Category, &row.UnitOfMeasure,
			&row.OpeningBalance, &row.CurrentQuantity, &row.ClosingBalance,
			&row.TotalPurchases, &row.TransfersIn, &row.TransfersOut, &row.TotalAssigned, &row.TotalExpended,
		); err != nil {
			return nil, classify("scan dashboard row", err)
		}
		out = append(out, row)
	}
	return out, classify("dashboard summary", rows.Err())
}

const movementTotalsQuery = `
	SELECT
	    (SELECT COALESCE(SUM(quantity), 0) FROM purchases
	      WHERE base_id = $3 AND asset_id = $4
	        AND ($1::date IS NULL OR purchase_date >= $1::date) AND ($2::date IS NULL OR purchase_date <= $2::date)),
	    (SELECT COALESCE(SUM(quantity), 0) FROM transfers
	      WHERE destination_base_id = $3 AND asset_id = $4
	        AND ($1::date IS NULL OR transfer_date >= $1::date) AND ($2::date IS NULL OR transfer_date <= $2::date)),
	    (SELECT COALESCE(SUM(quantity), 0) FROM transfers
	      WHERE source_base_id = $3 AND asset_id = $4
	        AND ($1::date IS NULL OR transfer_date >= $1::date) AND ($2::date IS NULL OR transfer_date <= $2::date))`

// MovementTotals compras, entradas y salidas de un par (base, activo) en la ventana.
func (r *DashboardRepo) MovementTotals(ctx context.Context, f repository.DashboardFilter) (repository.MovementTotals, error) {
	var t repository.MovementTotals
	err := r.q.QueryRow(ctx, movementTotalsQuery, f.From, f.To, f.BaseID, f.AssetID).
		Scan(&t.Purchases, &t.TransfersIn, &t.TransfersOut)
	if err != nil {
		return repository.MovementTotals{}, classify("movement totals", err)
	}
	return t, nil
}
