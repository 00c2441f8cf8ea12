package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "@every 5m", cfg.SessionSweep)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("DB_DSN", "file:test.db")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "file:test.db", cfg.DBDSN)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.LogPretty)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "grades", DBPort: "5432"}
	assert.Equal(t, "host=db user=u password=p dbname=grades port=5432 sslmode=disable", cfg.PostgresDSN())
}
