package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/military-assets-api/internal/domain/repository"
)

// whereBuilder arma cláusulas WHERE con placeholders posicionales.
type whereBuilder struct {
	clauses []string
	args    []any
}

// arg agrega el valor y devuelve su placeholder ($n).
func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) where(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *whereBuilder) eq(column, value string) {
	if value != "" {
		w.where(column + " = " + w.arg(value))
	}
}

func (w *whereBuilder) contains(column, value string) {
	if value != "" {
		w.where(column + " ILIKE '%' || " + w.arg(value) + " || '%'")
	}
}

func (w *whereBuilder) dateRange(column string, from, to *time.Time) {
	if from != nil {
		w.where(column + " >= " + w.arg(*from))
	}
	if to != nil {
		w.where(column + " <= " + w.arg(*to))
	}
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page agrega LIMIT/OFFSET del filtro ya normalizado.
func (w *whereBuilder) page(f repository.MovementFilter) string {
	out := ""
	if f.Limit > 0 {
		out += " LIMIT " + w.arg(f.Limit)
	}
	if f.Offset > 0 {
		out += " OFFSET " + w.arg(f.Offset)
	}
	return out
}
