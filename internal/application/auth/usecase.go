package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/military-assets-api/internal/application/dto"
	"github.com/jhoicas/military-assets-api/internal/application/inventory"
	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/access"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
	"github.com/jhoicas/military-assets-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login y perfil.
type AuthUseCase struct {
	userRepo repository.UserRepository
	audit    inventory.AuditSink
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth. audit puede ser nil.
func NewAuthUseCase(userRepo repository.UserRepository, audit inventory.AuditSink, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, audit: audit, jwtCfg: jwtCfg}
}

// Login verifica username/password de un usuario activo, genera JWT y retorna token + usuario.
// Credenciales inválidas o usuario inactivo devuelven ErrUnauthorized sin distinguir el motivo.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, origin string) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username y password son requeridos", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.FindActiveByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if _, err := access.Resolve(access.Identity{SubjectID: user.ID, Role: access.Role(user.Role), BaseID: user.BaseID}); err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, user.BaseID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Record(context.WithoutCancel(ctx), entity.AuditLogEntry{
			UserID:     user.ID,
			Action:     entity.AuditActionLogin,
			EntityType: entity.AuditEntityUser,
			EntityID:   user.ID,
			Details:    map[string]any{"username": user.Username},
			IPAddress:  origin,
			CreatedAt:  time.Now(),
		})
	}

	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// Me devuelve el perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, userID)
	}
	return toUserResponse(user), nil
}

// HashPassword genera el hash bcrypt usado al crear usuarios (seed y bootstrap).
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		BaseID:    u.BaseID,
		CreatedAt: u.CreatedAt,
	}
}
