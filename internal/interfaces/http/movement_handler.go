package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/military-assets-api/internal/application/dto"
	"github.com/jhoicas/military-assets-api/internal/application/inventory"
)

// HeaderIdempotencyKey header opcional en los endpoints de creación.
const HeaderIdempotencyKey = "Idempotency-Key"

// MovementHandler maneja compras, transferencias, asignaciones y gastos (protegido).
type MovementHandler struct {
	movements *inventory.MovementUseCase
	queries   *inventory.QueryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(movements *inventory.MovementUseCase, queries *inventory.QueryUseCase) *MovementHandler {
	return &MovementHandler{movements: movements, queries: queries}
}

func requestMeta(c *fiber.Ctx) inventory.RequestMeta {
	return inventory.RequestMeta{Origin: c.IP(), IdempotencyKey: c.Get(HeaderIdempotencyKey)}
}

// created responde 201 con el id del movimiento.
func created(c *fiber.Ctx, id, message string) error {
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{CreatedID: id, Message: message})
}

// ─── Compras ─────────────────────────────────────────────────────────────────

// CreatePurchase godoc
// @Summary      Registrar compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                     false  "clave de idempotencia"
// @Param        body             body    dto.CreatePurchaseRequest  true   "base_id, asset_id, quantity, purchase_date"
// @Success      201  {object}  dto.CreatedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *MovementHandler) CreatePurchase(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, err := h.movements.CreatePurchaseFromRequest(c.Context(), scope, in, requestMeta(c))
	if err != nil {
		return writeError(c, err)
	}
	return created(c, id, "compra registrada")
}

// ListPurchases godoc
// @Summary      Listar compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        base_id     query  string  false  "base (admin)"
// @Param        asset_id    query  string  false  "activo"
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.ListResponse[dto.PurchaseResponse]
// @Router       /api/purchases [get]
func (h *MovementHandler) ListPurchases(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidQuery(c)
	}
	items, err := h.queries.ListPurchases(c.Context(), scope, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(items))
}

// GetPurchase GET /api/purchases/:id
func (h *MovementHandler) GetPurchase(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.queries.GetPurchase(c.Context(), scope, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ─── Transferencias ──────────────────────────────────────────────────────────

// CreateTransfer godoc
// @Summary      Registrar transferencia entre bases
// @Description  Debita el origen y acredita el destino en una única transacción.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "source_base_id, destination_base_id, asset_id, quantity, transfer_date"
// @Success      201  {object}  dto.CreatedResponse
// @Failure      409  {object}  dto.ErrorResponse  "INSUFFICIENT_BALANCE o CONFLICT"
// @Router       /api/transfers [post]
func (h *MovementHandler) CreateTransfer(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, err := h.movements.CreateTransferFromRequest(c.Context(), scope, in, requestMeta(c))
	if err != nil {
		return writeError(c, err)
	}
	return created(c, id, "transferencia completada")
}

// ListTransfers GET /api/transfers. base_id coincide con origen o destino.
func (h *MovementHandler) ListTransfers(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidQuery(c)
	}
	items, err := h.queries.ListTransfers(c.Context(), scope, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(items))
}

// GetTransfer GET /api/transfers/:id
func (h *MovementHandler) GetTransfer(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.queries.GetTransfer(c.Context(), scope, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ─── Asignaciones ────────────────────────────────────────────────────────────

// CreateAssignment godoc
// @Summary      Asignar activos a personal
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAssignmentRequest  true  "base_id, asset_id, quantity, assigned_to_personnel, assignment_date"
// @Success      201  {object}  dto.CreatedResponse
// @Router       /api/assignments [post]
func (h *MovementHandler) CreateAssignment(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateAssignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, err := h.movements.CreateAssignmentFromRequest(c.Context(), scope, in, requestMeta(c))
	if err != nil {
		return writeError(c, err)
	}
	return created(c, id, "asignación registrada")
}

// ListAssignments GET /api/assignments?personnel&status
func (h *MovementHandler) ListAssignments(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidQuery(c)
	}
	items, err := h.queries.ListAssignments(c.Context(), scope, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(items))
}

// GetAssignment GET /api/assignments/:id
func (h *MovementHandler) GetAssignment(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.queries.GetAssignment(c.Context(), scope, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ─── Gastos ──────────────────────────────────────────────────────────────────

// CreateExpenditure godoc
// @Summary      Registrar gasto
// @Description  Con assignment_id la asignación pasa a expended; un segundo gasto sobre ella es 409 CONFLICT.
// @Tags         expenditures
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExpenditureRequest  true  "base_id, asset_id, quantity, expenditure_date, reason"
// @Success      201  {object}  dto.CreatedResponse
// @Router       /api/expenditures [post]
func (h *MovementHandler) CreateExpenditure(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateExpenditureRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, err := h.movements.CreateExpenditureFromRequest(c.Context(), scope, in, requestMeta(c))
	if err != nil {
		return writeError(c, err)
	}
	return created(c, id, "gasto registrado")
}

// ListExpenditures GET /api/expenditures?operation
func (h *MovementHandler) ListExpenditures(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidQuery(c)
	}
	items, err := h.queries.ListExpenditures(c.Context(), scope, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(items))
}

// GetExpenditure GET /api/expenditures/:id
func (h *MovementHandler) GetExpenditure(c *fiber.Ctx) error {
	scope, err := GetScope(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.queries.GetExpenditure(c.Context(), scope, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
