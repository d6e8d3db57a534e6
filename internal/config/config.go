package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the process configuration, read once at startup.
type Config struct {
	AppEnv string
	Port   string

	DBDriver   string
	DBDSN      string
	DBLogLevel string

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins string

	LowStockThreshold    int
	ReportLocation       *time.Location
	StockMovesRangeLimit int

	RedisURL        string
	SummaryCacheTTL time.Duration

	ReconcileCron   string
	ShutdownTimeout time.Duration

	AdminEmail    string
	AdminPassword string
}

// Load builds the configuration from environment variables. Call
// godotenv.Load before it if a .env file should be honored.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "production"),
		Port:                 getEnv("PORT", "3000"),
		DBDriver:             strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBLogLevel:           strings.ToLower(getEnv("DB_LOG_LEVEL", "warn")),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		JWTTTL:               time.Duration(GetEnvAsInt("JWT_TTL_HOURS", 24)) * time.Hour,
		CORSOrigins:          getEnv("CORS_ORIGINS", "*"),
		LowStockThreshold:    GetEnvAsInt("LOW_STOCK_THRESHOLD", 5),
		StockMovesRangeLimit: GetEnvAsInt("STOCK_MOVES_RANGE_LIMIT", 500),
		RedisURL:             os.Getenv("REDIS_URL"),
		SummaryCacheTTL:      time.Duration(GetEnvAsInt("SUMMARY_CACHE_TTL_SECONDS", 30)) * time.Second,
		ReconcileCron:        getEnv("RECONCILE_CRON", "@every 1h"),
		ShutdownTimeout:      time.Duration(GetEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
		AdminEmail:           getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:        getEnv("ADMIN_PASSWORD", "admin123"),
	}

	// RECONCILE_CRON="" disables the job, so an explicitly empty value wins.
	if v, ok := os.LookupEnv("RECONCILE_CRON"); ok {
		cfg.ReconcileCron = strings.TrimSpace(v)
	}

	loc, err := time.LoadLocation(getEnv("REPORT_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE: %w", err)
	}
	cfg.ReportLocation = loc

	cfg.DBDSN = databaseDSN(cfg.DBDriver)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development"
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (use %s or %s)", c.DBDriver, DriverPostgres, DriverSQLite)
	}

	if c.JWTSecret == "" {
		if !c.IsDev() {
			return errors.New("JWT_SECRET is required")
		}
		c.JWTSecret = "dev-only-secret-change-me-dev-only-secret"
	}
	if len(c.JWTSecret) < 32 && !c.IsDev() {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}

	if c.LowStockThreshold < 0 {
		return errors.New("LOW_STOCK_THRESHOLD must not be negative")
	}
	if c.StockMovesRangeLimit <= 0 {
		return errors.New("STOCK_MOVES_RANGE_LIMIT must be positive")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL_HOURS must be positive")
	}
	return nil
}

func databaseDSN(driver string) string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	if driver == DriverSQLite {
		return getEnv("DB_PATH", "erp.db")
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv("DB_HOST", "localhost"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// GetEnvAsInt reads an integer variable, falling back on absence or parse failure.
func GetEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
