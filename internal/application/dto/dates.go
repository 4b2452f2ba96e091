package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/military-assets-api/internal/domain"
)

// DateLayout formato de las fechas de negocio en requests y responses.
const DateLayout = "2006-01-02"

// ParseDate acepta "YYYY-MM-DD" o RFC3339 y devuelve la fecha a medianoche UTC.
// Las fechas de negocio tienen granularidad de día.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: fecha requerida", domain.ErrInvalidInput)
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha inválida %q", domain.ErrInvalidInput, s)
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseOptionalDate igual que ParseDate pero vacío devuelve nil (sin filtro).
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate serializa una fecha de negocio.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
