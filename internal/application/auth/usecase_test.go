package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/military-assets-api/internal/application/auth"
	"github.com/jhoicas/military-assets-api/internal/application/dto"
	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/infrastructure/memory"
	"github.com/jhoicas/military-assets-api/pkg/jwt"
)

type sink struct {
	mu      sync.Mutex
	entries []entity.AuditLogEntry
}

func (s *sink) Record(_ context.Context, e entity.AuditLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "test"}

func newUseCase(t *testing.T) (*auth.AuthUseCase, *sink) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Catalog().CreateBase(ctx, &entity.Base{ID: "b1", Name: "Alpha"}))

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, &entity.User{
		ID: "u1", Username: "commander1", FullName: "Cmdt. Alpha", PasswordHash: string(hash),
		Role: "base_commander", BaseID: "b1", IsActive: true,
	}))
	require.NoError(t, store.Users().Create(ctx, &entity.User{
		ID: "u2", Username: "retired", PasswordHash: string(hash), Role: "admin", IsActive: false,
	}))

	s := &sink{}
	return auth.NewAuthUseCase(store.Users(), s, jwtCfg), s
}

func TestLogin_OK(t *testing.T) {
	uc, s := newUseCase(t)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Username: "commander1", Password: "s3cret"}, "10.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "b1", resp.User.BaseID)

	userID, role, baseID, err := jwt.Parse(jwtCfg.Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "base_commander", role)
	assert.Equal(t, "b1", baseID)

	require.Len(t, s.entries, 1)
	assert.Equal(t, entity.AuditActionLogin, s.entries[0].Action)
	assert.Equal(t, "10.1.1.1", s.entries[0].IPAddress)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, s := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Username: "commander1", Password: "otra"}, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "s3cret"}, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "retired", Password: "s3cret"}, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "usuario inactivo")

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "commander1"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, s.entries)
}

func TestMe(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	me, err := uc.Me(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "commander1", me.Username)

	_, err = uc.Me(ctx, "u2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
