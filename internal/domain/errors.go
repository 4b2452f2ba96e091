package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") para añadir detalle;
// los adaptadores deben clasificarlos con errors.Is.
var (
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrForbidden           = errors.New("acceso denegado")
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInsufficientBalance = errors.New("saldo insuficiente")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrStoreUnavailable    = errors.New("almacenamiento no disponible")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrDuplicate           = errors.New("recurso duplicado")
)

// IsRetryable indica si el error es transitorio y el cliente puede reintentar
// la misma operación sin cambios.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrConflict)
}
