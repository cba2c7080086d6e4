package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config captures application runtime configuration loaded from environment
// variables. POSTGRES_URL and REDIS_URL are optional: without PostgreSQL the
// ledger runs on the in-memory store, and without Redis the idempotency and
// rate-limit middlewares are disabled.
type Config struct {
	AppName  string
	AppEnv   string
	Port     string
	LogLevel string

	PostgresURL    string
	MigrationsPath string
	RedisURL       string

	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	SeedDemoData bool

	MinTransaction      decimal.Decimal
	MaxTransaction      decimal.Decimal
	DefaultDailyLimit   decimal.Decimal
	DefaultMonthlyLimit decimal.Decimal
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "PhantomBanking")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("POSTGRES_MIGRATIONS_PATH", "migrations/postgres")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("IDEMPOTENCY_TTL", "24h")
	v.SetDefault("SEED_DEMO_DATA", false)
	v.SetDefault("MIN_TRANSACTION", "1")
	v.SetDefault("MAX_TRANSACTION", "5000")
	v.SetDefault("DEFAULT_DAILY_LIMIT", "5000")
	v.SetDefault("DEFAULT_MONTHLY_LIMIT", "50000")
}

// Load reads configuration values from the environment.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		AppName:        v.GetString("APP_NAME"),
		AppEnv:         v.GetString("APP_ENV"),
		Port:           v.GetString("PORT"),
		LogLevel:       strings.ToLower(v.GetString("LOG_LEVEL")),
		PostgresURL:    v.GetString("POSTGRES_URL"),
		MigrationsPath: v.GetString("POSTGRES_MIGRATIONS_PATH"),
		RedisURL:       v.GetString("REDIS_URL"),
		SeedDemoData:   v.GetBool("SEED_DEMO_DATA"),
	}

	var err error
	if cfg.ShutdownPeriod, err = time.ParseDuration(v.GetString("SHUTDOWN_TIMEOUT")); err != nil {
		return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	if cfg.IdempotencyTTL, err = time.ParseDuration(v.GetString("IDEMPOTENCY_TTL")); err != nil {
		return Config{}, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}

	for _, field := range []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"MIN_TRANSACTION", &cfg.MinTransaction},
		{"MAX_TRANSACTION", &cfg.MaxTransaction},
		{"DEFAULT_DAILY_LIMIT", &cfg.DefaultDailyLimit},
		{"DEFAULT_MONTHLY_LIMIT", &cfg.DefaultMonthlyLimit},
	} {
		d, err := decimal.NewFromString(v.GetString(field.name))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", field.name, err)
		}
		if d.IsNegative() {
			return Config{}, fmt.Errorf("invalid %s: must not be negative", field.name)
		}
		*field.dst = d
	}

	if cfg.MinTransaction.GreaterThan(cfg.MaxTransaction) {
		return Config{}, fmt.Errorf("MIN_TRANSACTION %s exceeds MAX_TRANSACTION %s", cfg.MinTransaction, cfg.MaxTransaction)
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDevelopment reports whether the app runs in a local environment.
func (c Config) IsDevelopment() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
