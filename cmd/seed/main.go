// seed aplica las migraciones y carga datos de demostración: bases, activos y un
// usuario por rol con contraseña bcrypt. Es idempotente: los registros existentes
// se omiten.
//
// Uso: go run ./cmd/seed [password]
// Por defecto la contraseña de los usuarios demo es "changeme123".
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/military-assets-api/internal/application/demo"
	"github.com/jhoicas/military-assets-api/internal/infrastructure/postgres"
	"github.com/jhoicas/military-assets-api/pkg/config"
	"github.com/jhoicas/military-assets-api/pkg/logger"
)

func main() {
	password := "changeme123"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if err := run(context.Background(), cfg.DB, password, log); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Msg("seed completado")
}

func run(ctx context.Context, dbCfg config.DBConfig, password string, log *logger.Logger) error {
	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	return demo.Seed(ctx, postgres.NewCatalogRepository(pool), postgres.NewUserRepository(pool), password, log)
}
