package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

var (
	_ repository.PurchaseRepository    = (*PurchaseRepo)(nil)
	_ repository.TransferRepository    = (*TransferRepo)(nil)
	_ repository.AssignmentRepository  = (*AssignmentRepo)(nil)
	_ repository.ExpenditureRepository = (*ExpenditureRepo)(nil)
)

// checkRefs emula las foreign keys de PostgreSQL.
func checkRefs(st *state, assetID, createdBy string, baseIDs ...string) error {
	for _, b := range baseIDs {
		if _, ok := st.bases[b]; !ok {
			return fmt.Errorf("%w: base %s", domain.ErrNotFound, b)
		}
	}
	if _, ok := st.assets[assetID]; !ok {
		return fmt.Errorf("%w: activo %s", domain.ErrNotFound, assetID)
	}
	if _, ok := st.users[createdBy]; !ok {
		return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, createdBy)
	}
	return nil
}

func inWindow(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// newestFirst ordena índices de inserción por fecha de negocio descendente y, a igual
// fecha, por inserción descendente.
func newestFirst(n int, date func(i int) time.Time) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = n - 1 - i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return date(idx[a]).After(date(idx[b]))
	})
	return idx
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func baseName(st *state, id string) string {
	if b, ok := st.bases[id]; ok {
		return b.Name
	}
	return ""
}

func assetInfo(st *state, id string) (name, category string) {
	if a, ok := st.assets[id]; ok {
		return a.Name, a.Category
	}
	return "", ""
}

func userName(st *state, id string) string {
	if u, ok := st.users[id]; ok {
		return u.FullName
	}
	return ""
}

// ─── Compras ─────────────────────────────────────────────────────────────────

// PurchaseRepo compras.
type PurchaseRepo struct{ acc accessor }

func (r *PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	return r.acc.write(func(st *state) error {
		if err := checkRefs(st, p.AssetID, p.CreatedBy, p.BaseID); err != nil {
			return err
		}
		cp := *p
		st.purchases = append(st.purchases, &cp)
		return nil
	})
}

func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := r.acc.read(func(st *state) error {
		for _, p := range st.purchases {
			if p.ID == id {
				out = joinPurchase(st, p)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	err := r.acc.read(func(st *state) error {
		for _, i := range newestFirst(len(st.purchases), func(i int) time.Time { return st.purchases[i].PurchaseDate }) {
			p := st.purchases[i]
			if f.BaseID != "" && p.BaseID != f.BaseID {
				continue
			}
			if f.AssetID != "" && p.AssetID != f.AssetID {
				continue
			}
			if !inWindow(p.PurchaseDate, f.From, f.To) {
				continue
			}
			out = append(out, joinPurchase(st, p))
		}
		out = page(out, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func joinPurchase(st *state, p *entity.Purchase) *entity.Purchase {
	cp := *p
	cp.BaseName = baseName(st, p.BaseID)
	cp.AssetName, cp.AssetCategory = assetInfo(st, p.AssetID)
	cp.CreatedByName = userName(st, p.CreatedBy)
	return &cp
}

// ─── Transferencias ──────────────────────────────────────────────────────────

// TransferRepo transferencias.
type TransferRepo struct{ acc accessor }

func (r *TransferRepo) Create(_ context.Context, t *entity.Transfer) error {
	return r.acc.write(func(st *state) error {
		if err := checkRefs(st, t.AssetID, t.CreatedBy, t.SourceBaseID, t.DestinationBaseID); err != nil {
			return err
		}
		cp := *t
		st.transfers = append(st.transfers, &cp)
		return nil
	})
}

func (r *TransferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.acc.read(func(st *state) error {
		for _, t := range st.transfers {
			if t.ID == id {
				out = joinTransfer(st, t)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *TransferRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	err := r.acc.read(func(st *state) error {
		for _, i := range newestFirst(len(st.transfers), func(i int) time.Time { return st.transfers[i].TransferDate }) {
			t := st.transfers[i]
			if f.BaseID != "" && !t.Touches(f.BaseID) {
				continue
			}
			if f.AssetID != "" && t.AssetID != f.AssetID {
				continue
			}
			if !inWindow(t.TransferDate, f.From, f.To) {
				continue
			}
			out = append(out, joinTransfer(st, t))
		}
		out = page(out, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func joinTransfer(st *state, t *entity.Transfer) *entity.Transfer {
	cp := *t
	cp.SourceBaseName = baseName(st, t.SourceBaseID)
	cp.DestinationBaseName = baseName(st, t.DestinationBaseID)
	cp.AssetName, cp.AssetCategory = assetInfo(st, t.AssetID)
	cp.CreatedByName = userName(st, t.CreatedBy)
	return &cp
}

// ─── Asignaciones ────────────────────────────────────────────────────────────

// AssignmentRepo asignaciones.
type AssignmentRepo struct{ acc accessor }

func (r *AssignmentRepo) Create(_ context.Context, a *entity.Assignment) error {
	return r.acc.write(func(st *state) error {
		if err := checkRefs(st, a.AssetID, a.CreatedBy, a.BaseID); err != nil {
			return err
		}
		cp := *a
		st.assignments = append(st.assignments, &cp)
		return nil
	})
}

func (r *AssignmentRepo) GetByID(_ context.Context, id string) (*entity.Assignment, error) {
	var out *entity.Assignment
	err := r.acc.read(func(st *state) error {
		if a := findAssignment(st, id); a != nil {
			out = joinAssignment(st, a)
		}
		return nil
	})
	return out, err
}

func (r *AssignmentRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Assignment, error) {
	var out []*entity.Assignment
	err := r.acc.read(func(st *state) error {
		for _, i := range newestFirst(len(st.assignments), func(i int) time.Time { return st.assignments[i].AssignmentDate }) {
			a := st.assignments[i]
			if f.BaseID != "" && a.BaseID != f.BaseID {
				continue
			}
			if f.AssetID != "" && a.AssetID != f.AssetID {
				continue
			}
			if f.Status != "" && a.Status != f.Status {
				continue
			}
			if f.Personnel != "" && !containsFold(a.AssignedToPersonnel, f.Personnel) {
				continue
			}
			if !inWindow(a.AssignmentDate, f.From, f.To) {
				continue
			}
			out = append(out, joinAssignment(st, a))
		}
		out = page(out, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

// MarkExpended transición condicionada active -> expended.
func (r *AssignmentRepo) MarkExpended(_ context.Context, id string) (bool, error) {
	var ok bool
	err := r.acc.write(func(st *state) error {
		a := findAssignment(st, id)
		if a == nil || a.Status != entity.AssignmentStatusActive {
			return nil
		}
		a.Status = entity.AssignmentStatusExpended
		ok = true
		return nil
	})
	return ok, err
}

func findAssignment(st *state, id string) *entity.Assignment {
	for _, a := range st.assignments {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func joinAssignment(st *state, a *entity.Assignment) *entity.Assignment {
	cp := *a
	cp.BaseName = baseName(st, a.BaseID)
	cp.AssetName, cp.AssetCategory = assetInfo(st, a.AssetID)
	cp.CreatedByName = userName(st, a.CreatedBy)
	return &cp
}

// ─── Gastos ──────────────────────────────────────────────────────────────────

// ExpenditureRepo gastos.
type ExpenditureRepo struct{ acc accessor }

func (r *ExpenditureRepo) Create(_ context.Context, e *entity.Expenditure) error {
	return r.acc.write(func(st *state) error {
		if err := checkRefs(st, e.AssetID, e.CreatedBy, e.BaseID); err != nil {
			return err
		}
		if e.AssignmentID != nil && findAssignment(st, *e.AssignmentID) == nil {
			return fmt.Errorf("%w: asignación %s", domain.ErrNotFound, *e.AssignmentID)
		}
		cp := *e
		st.expenditures = append(st.expenditures, &cp)
		return nil
	})
}

func (r *ExpenditureRepo) GetByID(_ context.Context, id string) (*entity.Expenditure, error) {
	var out *entity.Expenditure
	err := r.acc.read(func(st *state) error {
		for _, e := range st.expenditures {
			if e.ID == id {
				out = joinExpenditure(st, e)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ExpenditureRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Expenditure, error) {
	var out []*entity.Expenditure
	err := r.acc.read(func(st *state) error {
		for _, i := range newestFirst(len(st.expenditures), func(i int) time.Time { return st.expenditures[i].ExpenditureDate }) {
			e := st.expenditures[i]
			if f.BaseID != "" && e.BaseID != f.BaseID {
				continue
			}
			if f.AssetID != "" && e.AssetID != f.AssetID {
				continue
			}
			if f.Operation != "" && !containsFold(e.OperationName, f.Operation) {
				continue
			}
			if !inWindow(e.ExpenditureDate, f.From, f.To) {
				continue
			}
			out = append(out, joinExpenditure(st, e))
		}
		out = page(out, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func joinExpenditure(st *state, e *entity.Expenditure) *entity.Expenditure {
	cp := *e
	cp.BaseName = baseName(st, e.BaseID)
	cp.AssetName, cp.AssetCategory = assetInfo(st, e.AssetID)
	cp.CreatedByName = userName(st, e.CreatedBy)
	if e.AssignmentID != nil {
		if a := findAssignment(st, *e.AssignmentID); a != nil {
			cp.AssignedToPersonnel = a.AssignedToPersonnel
			cp.AssignedToUnit = a.AssignedToUnit
		}
	}
	return &cp
}
