package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Upstream.PageSize)
	assert.Equal(t, 10000, cfg.Upstream.MaxPages)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("DB_SQLITE_PATH", "/tmp/sync.db")
	t.Setenv("UPSTREAM_BASE_URL", "http://mock-server:5000/api/customers")
	t.Setenv("UPSTREAM_PAGE_SIZE", "25")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("SYNC_TIMEOUT", "1m")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "http://mock-server:5000/api/customers", cfg.Upstream.BaseURL)
	assert.Equal(t, 25, cfg.Upstream.PageSize)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, time.Minute, cfg.Sync.Timeout)
	assert.Equal(t, "/tmp/sync.db", cfg.Database.DSN())
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("UPSTREAM_PAGE_SIZE", "ten")
	t.Setenv("UPSTREAM_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 10, cfg.Upstream.PageSize)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
}

func TestDatabaseConfig_PostgresDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Driver:   DriverPostgres,
		Host:     "db",
		Port:     "5432",
		User:     "u",
		Password: "p",
		Name:     "customers",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=customers sslmode=disable", cfg.DSN())
}
