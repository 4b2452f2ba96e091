package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/military-assets-api/internal/application/dto"
	"github.com/jhoicas/military-assets-api/internal/domain"
)

// errorMapping traduce errores de dominio a status y código HTTP. El orden importa:
// el primer sentinel que coincide con errors.Is gana.
// Con message vacío se responde err.Error(); con message fijo el detalle solo va al log.
var errorMapping = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", ""},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", ""},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", ""},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},
	{domain.ErrInsufficientBalance, fiber.StatusConflict, "INSUFFICIENT_BALANCE", ""},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "el saldo cambió durante la operación; reintente"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE_REQUEST", ""},
	{domain.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE", "almacenamiento no disponible"},
}

// LocalError guarda en Locals el error original para RequestLogger.
const LocalError = "request_error"

// writeError responde con el ErrorResponse que corresponde a err. Un error sin
// clasificar es 500 INTERNAL y no expone el detalle.
func writeError(c *fiber.Ctx, err error) error {
	c.Locals(LocalError, err)
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func invalidQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de consulta inválidos"})
}
