// Package pdf genera el reporte imprimible del tablero de inventario con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + alcance     │  Fecha de generación + autor │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VENTANA: desde / hasta                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Base | Activo | Actual | Cierre | Movimientos | Neto │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES por columna                                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/military-assets-api/internal/application/analytics"
	"github.com/jhoicas/military-assets-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 46, Green: 64, Blue: 40}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ analytics.ReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa analytics.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateInventoryReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateInventoryReport(_ context.Context, report analytics.InventoryReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Reporte de inventario", true).
		WithAuthor(nonEmpty(report.GeneratedBy, "sistema"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(windowRow(report.From, report.To))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(report.Rows) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin registros de inventario para el filtro indicado.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	for _, r := range report.Rows {
		m.AddRows(tableDetailRow(r))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report.Rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report analytics.InventoryReport) core.Row {
	scope := "Todas las bases"
	if report.BaseID != "" {
		scope = "Base: " + baseLabel(report)
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New("REPORTE DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(scope, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Por: "+nonEmpty(report.GeneratedBy, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func windowRow(from, to *time.Time) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Ventana de movimientos: %s a %s", dateOr(from, "inicio"), dateOr(to, "hoy")), props.Text{
				Size: 8, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Base", 2, align.Left),
		h("Activo", 2, align.Left),
		h("Actual", 1, align.Right),
		h("Cierre", 1, align.Right),
		h("Compras", 1, align.Right),
		h("Entradas", 1, align.Right),
		h("Salidas", 1, align.Right),
		h("Asignado", 1, align.Right),
		h("Gastado", 1, align.Right),
		h("Neto", 1, align.Right),
	)
}

func tableDetailRow(r dto.DashboardRowDTO) core.Row {
	left := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7, Top: 1, Left: 1}))
	}
	return row.New(7).Add(
		left(r.BaseName, 2),
		left(r.AssetName, 2),
		qtyCol(r.CurrentQuantity, false),
		qtyCol(r.ClosingBalance, false),
		qtyCol(r.TotalPurchases, false),
		qtyCol(r.TransfersIn, false),
		qtyCol(r.TransfersOut, false),
		qtyCol(r.TotalAssigned, false),
		qtyCol(r.TotalExpended, false),
		qtyCol(r.NetMovement, true),
	)
}

func totalsRow(rows []dto.DashboardRowDTO) core.Row {
	var t dto.DashboardRowDTO
	for _, r := range rows {
		t.CurrentQuantity = t.CurrentQuantity.Add(r.CurrentQuantity)
		t.ClosingBalance = t.ClosingBalance.Add(r.ClosingBalance)
		t.TotalPurchases = t.TotalPurchases.Add(r.TotalPurchases)
		t.TransfersIn = t.TransfersIn.Add(r.TransfersIn)
		t.TransfersOut = t.TransfersOut.Add(r.TransfersOut)
		t.TotalAssigned = t.TotalAssigned.Add(r.TotalAssigned)
		t.TotalExpended = t.TotalExpended.Add(r.TotalExpended)
		t.NetMovement = t.NetMovement.Add(r.NetMovement)
	}
	return row.New(8).Add(
		col.New(4).Add(text.New("TOTALES", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 1,
		})),
		qtyCol(t.CurrentQuantity, true),
		qtyCol(t.ClosingBalance, true),
		qtyCol(t.TotalPurchases, true),
		qtyCol(t.TransfersIn, true),
		qtyCol(t.TransfersOut, true),
		qtyCol(t.TotalAssigned, true),
		qtyCol(t.TotalExpended, true),
		qtyCol(t.NetMovement, true),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func qtyCol(v decimal.Decimal, bold bool) core.Col {
	p := props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1}
	if bold {
		p.Style = fontstyle.Bold
	}
	return col.New(1).Add(text.New(formatQuantity(v), p))
}

func baseLabel(report analytics.InventoryReport) string {
	for _, r := range report.Rows {
		if r.BaseID == report.BaseID && r.BaseName != "" {
			return r.BaseName
		}
	}
	return report.BaseID
}

func dateOr(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return dto.FormatDate(*t)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQuantity muestra enteros sin decimales y el resto con hasta 4 cifras.
// Ej: 1500 → "1.500", 2.5 → "2,5"
func formatQuantity(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	intPart := v.Truncate(0)
	out := sign + groupThousands(intPart.String())
	if frac := v.Sub(intPart); !frac.IsZero() {
		out += "," + frac.StringFixed(4)[2:]
		for out[len(out)-1] == '0' {
			out = out[:len(out)-1]
		}
	}
	return out
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
