// Package redis guarda las claves de idempotencia en Redis para que varias réplicas
// del API compartan la misma reserva.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/military-assets-api/internal/application/inventory"
	"github.com/jhoicas/military-assets-api/pkg/config"
)

const (
	idempotencyKeyPrefix = "idem:"
	pendingValue         = "pending"
)

var _ inventory.IdempotencyGuard = (*IdempotencyGuard)(nil)

// IdempotencyGuard reserva claves con SETNX + TTL y guarda el id creado en la misma clave.
type IdempotencyGuard struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewIdempotencyGuard construye el guard. ttl <= 0 usa 24h.
func NewIdempotencyGuard(client *goredis.Client, ttl time.Duration) *IdempotencyGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyGuard{client: client, ttl: ttl}
}

// Claim reserva la clave con SETNX guardando un marcador de "en curso". Si ya
// existía devuelve el id que dejó Complete, o "" mientras siga en curso.
func (g *IdempotencyGuard) Claim(ctx context.Context, key string) (bool, string, error) {
	k := idempotencyKeyPrefix + key
	ok, err := g.client.SetNX(ctx, k, pendingValue, g.ttl).Result()
	if err != nil {
		return false, "", fmt.Errorf("claim idempotency key: %w", err)
	}
	if ok {
		return true, "", nil
	}
	val, err := g.client.Get(ctx, k).Result()
	switch {
	case errors.Is(err, goredis.Nil):
		// Venció entre SETNX y GET.
		return false, "", nil
	case err != nil:
		return false, "", fmt.Errorf("read idempotency key: %w", err)
	case val == pendingValue:
		return false, "", nil
	}
	return false, val, nil
}

// Complete guarda el id creado conservando el TTL de la reserva.
func (g *IdempotencyGuard) Complete(ctx context.Context, key, createdID string) error {
	if err := g.client.Set(ctx, idempotencyKeyPrefix+key, createdID, goredis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// Release libera la clave para que el cliente pueda reintentar tras un fallo.
func (g *IdempotencyGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, idempotencyKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
