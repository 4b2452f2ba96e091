package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/military-assets-api/internal/application/dto"
	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/access"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

// QueryUseCase consulta del log de auditoría. Solo admin.
type QueryUseCase struct {
	repo repository.AuditLogRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(repo repository.AuditLogRepository) *QueryUseCase {
	return &QueryUseCase{repo: repo}
}

// List devuelve las entradas más recientes primero. Limit por defecto 100, máximo 500.
func (uc *QueryUseCase) List(ctx context.Context, scope access.Scope, q dto.AuditLogQuery) ([]dto.AuditLogResponse, error) {
	if err := scope.Authorize(access.ActionReadAuditLog); err != nil {
		return nil, err
	}
	from, err := dto.ParseOptionalDate(q.StartDate)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseOptionalDate(q.EndDate)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = repository.AuditDefaultLimit
	}
	if limit > repository.AuditMaxLimit {
		limit = repository.AuditMaxLimit
	}

	entries, err := uc.repo.List(ctx, repository.AuditLogFilter{
		UserID:     strings.TrimSpace(q.UserID),
		Action:     strings.ToUpper(strings.TrimSpace(q.Action)),
		EntityType: strings.TrimSpace(q.EntityType),
		From:       from,
		To:         to,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditLogResponse{
			ID:         e.ID,
			UserID:     e.UserID,
			Username:   e.Username,
			FullName:   e.FullName,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Details:    e.Details,
			IPAddress:  e.IPAddress,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out, nil
}
