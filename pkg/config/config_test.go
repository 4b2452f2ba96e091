package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cret")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.App.StoreDriver)
	assert.Equal(t, "0.0.0.0:5000", cfg.HTTP.Addr())
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 1024, cfg.Audit.QueueSize)
	assert.True(t, cfg.Bootstrap.DemoData)
	assert.Empty(t, cfg.Bootstrap.DemoPassword)
	assert.Equal(t, "postgres://postgres:@localhost:5432/military_asset_db?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_ValoresComoTexto(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cret")
	v.Set("HTTP_PORT", "8081")
	v.Set("STORE_DRIVER", "MEMORY")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("DATABASE_URL", "postgres://u:p@db:5432/x")
	v.Set("BOOTSTRAP_DEMO_DATA", "false")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, StoreDriverMemory, cfg.App.StoreDriver)
	assert.True(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Bootstrap.DemoData)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
}

func TestFromViper_Invalida(t *testing.T) {
	v := viper.New()
	_, err := fromViper(v)
	assert.Error(t, err, "JWT_SECRET es obligatorio")

	v.Set("JWT_SECRET", "s3cret")
	v.Set("STORE_DRIVER", "mysql")
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "h", Port: 5432, User: "u", Password: "p@ss/word", DBName: "d", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@h:5432/d?sslmode=require", c.DSN())
}
