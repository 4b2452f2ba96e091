// Package analytics contiene los casos de uso del tablero de inventario: saldos por
// registro con los totales de movimientos en una ventana de fechas, el desglose de
// movimiento neto y el reporte PDF.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/military-assets-api/internal/application/dto"
	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/access"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

// DashboardUseCase genera el tablero dentro del alcance del llamador.
//
// Fuente de datos: DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	repo      repository.DashboardRepository
	generator ReportGenerator
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso. generator puede ser nil si no se
// expone el reporte PDF.
func NewDashboardUseCase(repo repository.DashboardRepository, generator ReportGenerator) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, generator: generator, now: time.Now}
}

// Summary devuelve una fila por registro de inventario visible.
// net_movement = compras + entradas - salidas dentro de la ventana.
func (uc *DashboardUseCase) Summary(ctx context.Context, scope access.Scope, q dto.DashboardQuery) ([]dto.DashboardRowDTO, error) {
	filter, err := buildFilter(scope, q)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.Summary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("dashboard: resumen: %w", err)
	}
	out := make([]dto.DashboardRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DashboardRowDTO{
			BaseID:          r.BaseID,
			BaseName:        r.BaseName,
			AssetID:         r.AssetID,
			AssetName:       r.AssetName,
			Category:        r.Category,
			UnitOfMeasure:   r.UnitOfMeasure,
			OpeningBalance:  r.OpeningBalance,
			CurrentQuantity: r.CurrentQuantity,
			ClosingBalance:  r.ClosingBalance,
			TotalPurchases:  r.TotalPurchases,
			TransfersIn:     r.TransfersIn,
			TransfersOut:    r.TransfersOut,
			TotalAssigned:   r.TotalAssigned,
			TotalExpended:   r.TotalExpended,
			NetMovement:     r.TotalPurchases.Add(r.TransfersIn).Sub(r.TransfersOut),
		})
	}
	return out, nil
}

// MovementBreakdown desglosa el movimiento neto de un par (base, activo). Ambos son obligatorios.
func (uc *DashboardUseCase) MovementBreakdown(ctx context.Context, scope access.Scope, q dto.DashboardQuery) (*dto.MovementBreakdownDTO, error) {
	if strings.TrimSpace(q.BaseID) == "" || strings.TrimSpace(q.AssetID) == "" {
		return nil, fmt.Errorf("%w: base_id y asset_id son requeridos", domain.ErrInvalidInput)
	}
	filter, err := buildFilter(scope, q)
	if err != nil {
		return nil, err
	}
	t, err := uc.repo.MovementTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("dashboard: desglose: %w", err)
	}
	return &dto.MovementBreakdownDTO{
		Purchases:    t.Purchases,
		TransfersIn:  t.TransfersIn,
		TransfersOut: t.TransfersOut,
		NetMovement:  t.Purchases.Add(t.TransfersIn).Sub(t.TransfersOut),
	}, nil
}

// ReportPDF genera el PDF del tablero con los mismos filtros que Summary.
func (uc *DashboardUseCase) ReportPDF(ctx context.Context, scope access.Scope, q dto.DashboardQuery) ([]byte, error) {
	if uc.generator == nil {
		return nil, fmt.Errorf("dashboard: generador de reportes no configurado")
	}
	filter, err := buildFilter(scope, q)
	if err != nil {
		return nil, err
	}
	rows, err := uc.Summary(ctx, scope, q)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateInventoryReport(ctx, InventoryReport{
		GeneratedAt: uc.now(),
		GeneratedBy: scope.SubjectID(),
		BaseID:      filter.BaseID,
		From:        filter.From,
		To:          filter.To,
		Rows:        rows,
	})
}

func buildFilter(scope access.Scope, q dto.DashboardQuery) (repository.DashboardFilter, error) {
	baseID, err := scope.ReadBase(strings.TrimSpace(q.BaseID))
	if err != nil {
		return repository.DashboardFilter{}, err
	}
	from, err := dto.ParseOptionalDate(q.StartDate)
	if err != nil {
		return repository.DashboardFilter{}, err
	}
	to, err := dto.ParseOptionalDate(q.EndDate)
	if err != nil {
		return repository.DashboardFilter{}, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return repository.DashboardFilter{}, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	return repository.DashboardFilter{
		BaseID:  baseID,
		AssetID: strings.TrimSpace(q.AssetID),
		From:    from,
		To:      to,
	}, nil
}
