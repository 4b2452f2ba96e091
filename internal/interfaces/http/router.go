package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/military-assets-api/internal/application/analytics"
	"github.com/jhoicas/military-assets-api/internal/application/audit"
	"github.com/jhoicas/military-assets-api/internal/application/auth"
	"github.com/jhoicas/military-assets-api/internal/application/dto"
	"github.com/jhoicas/military-assets-api/internal/application/inventory"
	"github.com/jhoicas/military-assets-api/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Movements   *inventory.MovementUseCase
	Queries     *inventory.QueryUseCase
	DashboardUC *appanalytics.DashboardUseCase
	AuditUC     *audit.QueryUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
	ServiceName string

	// Ping verifica el almacenamiento para /api/health. nil = siempre ok.
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	api.Get("/health", healthHandler(deps))

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	requireAuth := AuthMiddleware(deps.JWTSecret)
	api.Get("/auth/me", requireAuth, authHandler.Me)

	mh := NewMovementHandler(deps.Movements, deps.Queries)

	purchases := api.Group("/purchases", requireAuth)
	purchases.Get("/", mh.ListPurchases)
	purchases.Get("/:id", mh.GetPurchase)
	purchases.Post("/", RequireAction(access.ActionCreatePurchase), mh.CreatePurchase)

	transfers := api.Group("/transfers", requireAuth)
	transfers.Get("/", mh.ListTransfers)
	transfers.Get("/:id", mh.GetTransfer)
	transfers.Post("/", RequireAction(access.ActionCreateTransfer), mh.CreateTransfer)

	assignments := api.Group("/assignments", requireAuth)
	assignments.Get("/", mh.ListAssignments)
	assignments.Get("/:id", mh.GetAssignment)
	assignments.Post("/", RequireAction(access.ActionCreateAssignment), mh.CreateAssignment)

	expenditures := api.Group("/expenditures", requireAuth)
	expenditures.Get("/", mh.ListExpenditures)
	expenditures.Get("/:id", mh.GetExpenditure)
	expenditures.Post("/", RequireAction(access.ActionCreateExpenditure), mh.CreateExpenditure)

	dashboard := api.Group("/dashboard", requireAuth)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/", dashboardHandler.GetSummary)
	dashboard.Get("/movement-breakdown", dashboardHandler.GetMovementBreakdown)
	dashboard.Get("/report.pdf", dashboardHandler.GetReportPDF)

	auditHandler := NewAuditHandler(deps.AuditUC)
	api.Get("/audit", requireAuth, RequireAction(access.ActionReadAuditLog), auditHandler.List)
}

func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				c.Locals(LocalError, err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "almacenamiento no disponible"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	}
}
