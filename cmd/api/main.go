package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	appanalytics "github.com/jhoicas/military-assets-api/internal/application/analytics"
	"github.com/jhoicas/military-assets-api/internal/application/audit"
	"github.com/jhoicas/military-assets-api/internal/application/auth"
	"github.com/jhoicas/military-assets-api/internal/application/demo"
	"github.com/jhoicas/military-assets-api/internal/application/inventory"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
	"github.com/jhoicas/military-assets-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/military-assets-api/internal/infrastructure/pdf"
	"github.com/jhoicas/military-assets-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/military-assets-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/military-assets-api/internal/interfaces/http"
	"github.com/jhoicas/military-assets-api/pkg/config"
	"github.com/jhoicas/military-assets-api/pkg/logger"
)

// stores agrupa los puertos de persistencia del driver elegido.
type stores struct {
	txRunner     inventory.TxRunner
	balances     inventory.BalanceReader
	purchases    repository.PurchaseRepository
	transfers    repository.TransferRepository
	assignments  repository.AssignmentRepository
	expenditures repository.ExpenditureRepository
	users        repository.UserRepository
	auditLogs    repository.AuditLogRepository
	dashboard    repository.DashboardRepository
	ping         func(ctx context.Context) error
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	var st *stores
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		st, err = memoryStores(ctx, cfg.Bootstrap, log)
	case config.StoreDriverPostgres:
		st, err = postgresStores(ctx, cfg.DB)
	default:
		log.Fatal().Str("driver", cfg.App.StoreDriver).Msg("STORE_DRIVER desconocido")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	var idempotency inventory.IdempotencyGuard
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		idempotency = infraredis.NewIdempotencyGuard(client, cfg.Redis.IdempotencyTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotencia en Redis")
	} else {
		idempotency = memory.NewIdempotencyGuard(cfg.Redis.IdempotencyTTL)
	}

	auditRecorder := audit.NewRecorder(st.auditLogs, log.Component("audit"), cfg.Audit.QueueSize, cfg.Audit.WriteTimeout)

	movementUC := inventory.NewMovementUseCase(st.txRunner, st.balances, auditRecorder,
		inventory.WithIdempotency(idempotency),
		inventory.WithLogger(log.Component("movements")),
	)
	queryUC := inventory.NewQueryUseCase(st.purchases, st.transfers, st.assignments, st.expenditures)
	dashboardUC := appanalytics.NewDashboardUseCase(st.dashboard, infrapdf.NewMarotoReportGenerator())
	authUC := auth.NewAuthUseCase(st.users, auditRecorder, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + httpRouter.HeaderIdempotencyKey,
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Military Assets API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Movements:   movementUC,
		Queries:     queryUC,
		DashboardUC: dashboardUC,
		AuditUC:     audit.NewQueryUseCase(st.auditLogs),
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
		Ping:        st.ping,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	auditRecorder.Close()

	log.Info().Msg("aplicación detenida")
}

func postgresStores(ctx context.Context, cfg config.DBConfig) (*stores, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &stores{
		txRunner:     postgres.NewTxRunner(pool),
		balances:     postgres.NewInventoryRepository(pool),
		purchases:    postgres.NewPurchaseRepository(pool),
		transfers:    postgres.NewTransferRepository(pool),
		assignments:  postgres.NewAssignmentRepository(pool),
		expenditures: postgres.NewExpenditureRepository(pool),
		users:        postgres.NewUserRepository(pool),
		auditLogs:    postgres.NewAuditLogRepository(pool),
		dashboard:    postgres.NewDashboardRepository(pool),
		ping:         pool.Ping,
		close:        pool.Close,
	}, nil
}

// memoryStores arma el almacén en memoria. Con BOOTSTRAP_ADMIN_* crea el admin inicial
// y con BOOTSTRAP_DEMO_DATA carga el catálogo demo.
func memoryStores(ctx context.Context, boot config.BootstrapConfig, log *logger.Logger) (*stores, error) {
	store := memory.NewStore()
	if boot.AdminUsername != "" && boot.AdminPassword != "" {
		hash, err := auth.HashPassword(boot.AdminPassword)
		if err != nil {
			return nil, err
		}
		if err := store.Users().Create(ctx, &entity.User{
			ID:           uuid.New().String(),
			Username:     boot.AdminUsername,
			FullName:     "Administrador",
			PasswordHash: hash,
			Role:         "admin",
			IsActive:     true,
		}); err != nil {
			return nil, err
		}
	}
	if boot.DemoData {
		if err := demo.Seed(ctx, store.Catalog(), store.Users(), boot.DemoPassword, log); err != nil {
			return nil, err
		}
		log.Info().Msg("catálogo demo cargado")
	}
	return &stores{
		txRunner:     store,
		balances:     store.Inventory(),
		purchases:    store.Purchases(),
		transfers:    store.Transfers(),
		assignments:  store.Assignments(),
		expenditures: store.Expenditures(),
		users:        store.Users(),
		auditLogs:    store.AuditLogs(),
		dashboard:    store.Dashboard(),
		close:        func() {},
	}, nil
}
