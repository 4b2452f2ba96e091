package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userSelect = `
	SELECT id, username, full_name, email, password_hash, role, COALESCE(base_id, ''), is_active, created_at, updated_at
	FROM users`

// Create persiste un nuevo usuario. Username repetido (sin distinguir mayúsculas) es ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, full_name, email, password_hash, role, base_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Username, user.FullName, user.Email, user.PasswordHash, user.Role, user.BaseID,
		user.IsActive, createdAt(user.CreatedAt), createdAt(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username %s", domain.ErrDuplicate, user.Username)
		}
		return classify("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID (activo o no).
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, userSelect+` WHERE id = $1`, id)
}

// FindActiveByUsername devuelve nil si no existe o está inactivo.
func (r *UserRepo) FindActiveByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, userSelect+` WHERE username = $1 AND is_active = TRUE`, username)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.BaseID,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get user", err)
	}
	return &u, nil
}
