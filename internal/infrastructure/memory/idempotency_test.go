package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardAt(ttl time.Duration, clock *time.Time) *IdempotencyGuard {
	g := NewIdempotencyGuard(ttl)
	g.now = func() time.Time { return *clock }
	return g
}

func TestIdempotencyGuard_CompleteYReplay(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	g := guardAt(time.Hour, &clock)

	ok, id, err := g.Claim(ctx, "u1:purchase:k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, id)

	ok, id, err = g.Claim(ctx, "u1:purchase:k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, id, "en curso: sin id todavía")

	require.NoError(t, g.Complete(ctx, "u1:purchase:k", "p-123"))
	ok, id, err = g.Claim(ctx, "u1:purchase:k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "p-123", id)
}

func TestIdempotencyGuard_ReleasePermiteReintentar(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	g := guardAt(time.Hour, &clock)

	_, _, err := g.Claim(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, g.Release(ctx, "k"))

	ok, _, err := g.Claim(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotencyGuard_ExpiraYPurga(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	g := guardAt(time.Minute, &clock)

	for i := 0; i < 50; i++ {
		_, _, err := g.Claim(ctx, fmt.Sprintf("k-%d", i))
		require.NoError(t, err)
	}
	require.NoError(t, g.Complete(ctx, "k-0", "p-0"))
	assert.Equal(t, 50, g.size())

	clock = clock.Add(2 * time.Minute)
	ok, id, err := g.Claim(ctx, "k-0")
	require.NoError(t, err)
	assert.True(t, ok, "una clave vencida se puede reclamar de nuevo")
	assert.Empty(t, id)
	assert.Equal(t, 1, g.size(), "las claves vencidas se purgan")
}

func TestIdempotencyGuard_SinTTLNoExpira(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	g := guardAt(0, &clock)

	_, _, err := g.Claim(ctx, "k")
	require.NoError(t, err)
	clock = clock.Add(1000 * time.Hour)

	ok, _, err := g.Claim(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
