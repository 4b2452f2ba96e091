package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/military-assets-api/internal/application/inventory"
)

var _ inventory.IdempotencyGuard = (*IdempotencyGuard)(nil)

type idempotencyEntry struct {
	expires   time.Time
	createdID string
}

// IdempotencyGuard reserva claves en memoria con expiración; alternativa a Redis en
// un único proceso. Las claves vencidas se purgan al reclamar, como mucho una vez por TTL.
type IdempotencyGuard struct {
	mu        sync.Mutex
	ttl       time.Duration
	keys      map[string]idempotencyEntry
	nextSweep time.Time
	now       func() time.Time
}

// NewIdempotencyGuard crea el guard. ttl <= 0 = las claves no expiran.
func NewIdempotencyGuard(ttl time.Duration) *IdempotencyGuard {
	return &IdempotencyGuard{ttl: ttl, keys: make(map[string]idempotencyEntry), now: time.Now}
}

func (g *IdempotencyGuard) Claim(_ context.Context, key string) (bool, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	g.sweep(now)
	if e, ok := g.keys[key]; ok && g.alive(e, now) {
		return false, e.createdID, nil
	}
	g.keys[key] = idempotencyEntry{expires: now.Add(g.ttl)}
	return true, "", nil
}

func (g *IdempotencyGuard) Complete(_ context.Context, key, createdID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if e, ok := g.keys[key]; ok {
		e.createdID = createdID
		g.keys[key] = e
	}
	return nil
}

func (g *IdempotencyGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
	return nil
}

// size cantidad de claves retenidas, vencidas o no.
func (g *IdempotencyGuard) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.keys)
}

func (g *IdempotencyGuard) alive(e idempotencyEntry, now time.Time) bool {
	return g.ttl <= 0 || now.Before(e.expires)
}

func (g *IdempotencyGuard) sweep(now time.Time) {
	if g.ttl <= 0 || now.Before(g.nextSweep) {
		return
	}
	for k, e := range g.keys {
		if !g.alive(e, now) {
			delete(g.keys, k)
		}
	}
	g.nextSweep = now.Add(g.ttl)
}
