package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("APP_ENV", "production")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, 500, cfg.StockMovesRangeLimit)
	assert.Equal(t, time.UTC.String(), cfg.ReportLocation.String())
	assert.Equal(t, "@every 1h", cfg.ReconcileCron)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Contains(t, cfg.DBDSN, "host=localhost")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "/tmp/shop.db")
	t.Setenv("LOW_STOCK_THRESHOLD", "12")
	t.Setenv("REPORT_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("RECONCILE_CRON", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/shop.db", cfg.DBDSN)
	assert.Equal(t, 12, cfg.LowStockThreshold)
	assert.Equal(t, "America/Sao_Paulo", cfg.ReportLocation.String())
	assert.Empty(t, cfg.ReconcileCron)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("short secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "short")
		_, err := Load()
		assert.ErrorContains(t, err, "32 characters")
	})

	t.Run("unknown driver", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DB_DRIVER", "mysql")
		_, err := Load()
		assert.ErrorContains(t, err, "unsupported DB_DRIVER")
	})

	t.Run("bad timezone", func(t *testing.T) {
		setRequired(t)
		t.Setenv("REPORT_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.ErrorContains(t, err, "REPORT_TIMEZONE")
	})
}

func TestLoad_DevSecretFallback(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	t.Setenv("NOT_INT", "abc")

	assert.Equal(t, 42, GetEnvAsInt("SOME_INT", 1))
	assert.Equal(t, 7, GetEnvAsInt("NOT_INT", 7))
	assert.Equal(t, 9, GetEnvAsInt("MISSING_INT_VAR", 9))
}
