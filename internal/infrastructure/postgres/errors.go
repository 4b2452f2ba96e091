package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/military-assets-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeSerializationFail   = "40001"
	codeDeadlockDetected    = "40P01"
	codeNumericOutOfRange   = "22003"
)

// balanceConstraints son los CHECK de saldo no negativo de inventory. Cualquier otro
// CHECK violado es un dato de entrada inválido.
var balanceConstraints = map[string]bool{
	"inventory_current_nonneg": true,
	"inventory_closing_nonneg": true,
}

// classify envuelve err con el error de dominio que corresponde. Cualquier fallo que no
// sea una violación de restricción conocida se considera ErrStoreUnavailable.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrNotFound, pgErr.ConstraintName)
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrDuplicate, pgErr.ConstraintName)
		case codeCheckViolation:
			if balanceConstraints[pgErr.ConstraintName] {
				return fmt.Errorf("%s: %w", op, domain.ErrInsufficientBalance)
			}
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidInput, pgErr.ConstraintName)
		case codeNumericOutOfRange:
			return fmt.Errorf("%s: %w: valor numérico fuera de rango", op, domain.ErrInvalidInput)
		case codeSerializationFail, codeDeadlockDetected:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
