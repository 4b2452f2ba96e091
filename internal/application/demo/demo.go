// Package demo carga el catálogo y los usuarios de demostración. Lo usan cmd/seed
// contra PostgreSQL y el driver memory al arrancar.
package demo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/military-assets-api/internal/application/auth"
	"github.com/jhoicas/military-assets-api/internal/domain"
	"github.com/jhoicas/military-assets-api/internal/domain/entity"
	"github.com/jhoicas/military-assets-api/internal/domain/repository"
	"github.com/jhoicas/military-assets-api/pkg/logger"
)

// Bases de demostración.
func Bases() []entity.Base {
	return []entity.Base{
		{ID: "base-alpha", Name: "Base Alpha", Location: "Sector Norte"},
		{ID: "base-bravo", Name: "Base Bravo", Location: "Sector Sur"},
		{ID: "base-charlie", Name: "Base Charlie", Location: "Sector Oriente"},
	}
}

// Assets de demostración.
func Assets() []entity.Asset {
	return []entity.Asset{
		{ID: "asset-rifle", Name: "Fusil de asalto", Category: "weapon", UnitOfMeasure: "unit"},
		{ID: "asset-ammo-556", Name: "Munición 5.56mm", Category: "ammunition", UnitOfMeasure: "round"},
		{ID: "asset-truck", Name: "Camión de transporte", Category: "vehicle", UnitOfMeasure: "unit"},
		{ID: "asset-radio", Name: "Radio táctico", Category: "equipment", UnitOfMeasure: "unit"},
		{ID: "asset-fuel", Name: "Combustible diésel", Category: "consumable", UnitOfMeasure: "liter"},
	}
}

// Users de demostración, uno por rol. PasswordHash se completa en Seed.
func Users() []entity.User {
	return []entity.User{
		{ID: "user-admin", Username: "admin", FullName: "Administrador del Sistema", Role: "admin"},
		{ID: "user-cmd-alpha", Username: "commander.alpha", FullName: "Comandante Base Alpha", Role: "base_commander", BaseID: "base-alpha"},
		{ID: "user-log-alpha", Username: "logistics.alpha", FullName: "Oficial de Logística Alpha", Role: "logistics_officer", BaseID: "base-alpha"},
		{ID: "user-cmd-bravo", Username: "commander.bravo", FullName: "Comandante Base Bravo", Role: "base_commander", BaseID: "base-bravo"},
	}
}

// Seed crea bases y activos y, si password no está vacío, los usuarios demo.
// Los registros existentes se omiten, así que puede ejecutarse varias veces.
func Seed(ctx context.Context, catalog repository.CatalogRepository, users repository.UserRepository, password string, log *logger.Logger) error {
	for _, b := range Bases() {
		if err := skipDuplicate(catalog.CreateBase(ctx, &b)); err != nil {
			return fmt.Errorf("base %s: %w", b.ID, err)
		}
	}
	for _, a := range Assets() {
		if err := skipDuplicate(catalog.CreateAsset(ctx, &a)); err != nil {
			return fmt.Errorf("activo %s: %w", a.ID, err)
		}
	}
	if password == "" {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	for _, u := range Users() {
		u.PasswordHash = hash
		u.IsActive = true
		if err := skipDuplicate(users.Create(ctx, &u)); err != nil {
			return fmt.Errorf("usuario %s: %w", u.Username, err)
		}
		log.Info().Str("username", u.Username).Str("role", u.Role).Msg("usuario demo")
	}
	return nil
}

func skipDuplicate(err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return nil
	}
	return err
}
