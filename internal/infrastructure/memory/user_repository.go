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
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.CatalogRepository  = (*CatalogRepo)(nil)
	_ repository.AuditLogRepository = (*AuditLogRepo)(nil)
)

// UserRepo usuarios.
type UserRepo struct{ acc accessor }

// Create persiste un usuario; username duplicado es ErrDuplicate.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.acc.write(func(st *state) error {
		if _, ok := st.users[u.ID]; ok {
			return fmt.Errorf("%w: usuario %s", domain.ErrDuplicate, u.ID)
		}
		for _, existing := range st.users {
			if strings.EqualFold(existing.Username, u.Username) {
				return fmt.Errorf("%w: username %s", domain.ErrDuplicate, u.Username)
			}
		}
		if u.BaseID != "" {
			if _, ok := st.bases[u.BaseID]; !ok {
				return fmt.Errorf("%w: base %s", domain.ErrNotFound, u.BaseID)
			}
		}
		cp := *u
		st.users[u.ID] = &cp
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.acc.read(func(st *state) error {
		if u, ok := st.users[id]; ok {
			cp := *u
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) FindActiveByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.acc.read(func(st *state) error {
		for _, u := range st.users {
			if u.Username == username && u.IsActive {
				cp := *u
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

// CatalogRepo bases y activos.
type CatalogRepo struct {
	acc accessor
	now func() time.Time
}

func (r *CatalogRepo) CreateBase(_ context.Context, b *entity.Base) error {
	return r.acc.write(func(st *state) error {
		if _, ok := st.bases[b.ID]; ok {
			return fmt.Errorf("%w: base %s", domain.ErrDuplicate, b.ID)
		}
		cp := *b
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = r.now()
		}
		st.bases[b.ID] = &cp
		return nil
	})
}

func (r *CatalogRepo) CreateAsset(_ context.Context, a *entity.Asset) error {
	return r.acc.write(func(st *state) error {
		if _, ok := st.assets[a.ID]; ok {
			return fmt.Errorf("%w: activo %s", domain.ErrDuplicate, a.ID)
		}
		cp := *a
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = r.now()
		}
		st.assets[a.ID] = &cp
		return nil
	})
}

func (r *CatalogRepo) ListBases(_ context.Context) ([]*entity.Base, error) {
	var out []*entity.Base
	err := r.acc.read(func(st *state) error {
		for _, b := range st.bases {
			cp := *b
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *CatalogRepo) ListAssets(_ context.Context) ([]*entity.Asset, error) {
	var out []*entity.Asset
	err := r.acc.read(func(st *state) error {
		for _, a := range st.assets {
			cp := *a
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// AuditLogRepo log de auditoría append-only.
type AuditLogRepo struct{ acc accessor }

func (r *AuditLogRepo) Create(_ context.Context, e *entity.AuditLogEntry) error {
	return r.acc.write(func(st *state) error {
		st.nextAuditID++
		cp := *e
		cp.ID = st.nextAuditID
		e.ID = cp.ID
		st.audit = append(st.audit, &cp)
		return nil
	})
}

// List devuelve las entradas más recientes primero.
func (r *AuditLogRepo) List(_ context.Context, f repository.AuditLogFilter) ([]*entity.AuditLogEntry, error) {
	var out []*entity.AuditLogEntry
	err := r.acc.read(func(st *state) error {
		for i := len(st.audit) - 1; i >= 0; i-- {
			e := st.audit[i]
			if f.UserID != "" && e.UserID != f.UserID {
				continue
			}
			if f.Action != "" && e.Action != f.Action {
				continue
			}
			if f.EntityType != "" && e.EntityType != f.EntityType {
				continue
			}
			if f.From != nil && e.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && !e.CreatedAt.Before(f.To.Add(24*time.Hour)) {
				continue
			}
			cp := *e
			if u, ok := st.users[e.UserID]; ok {
				cp.Username = u.Username
				cp.FullName = u.FullName
			}
			out = append(out, &cp)
			if f.Limit > 0 && len(out) >= f.Limit {
				break
			}
		}
		return nil
	})
	return out, err
}
