// Package config handles application configuration loading from environment
// variables and optional .env files. It provides a centralized Config struct
// used across the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// DefaultEnvFiles are read, when present, before the environment is parsed.
// Variables already set in the process environment take precedence.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"APP_PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"

	// Store selects the employee backend: "postgres" or "memory".
	Store string `env:"STORE" envDefault:"postgres"`

	// PostgreSQL connection
	DBHost           string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort           string        `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser           string        `env:"POSTGRES_USER" envDefault:"orgchart"`
	DBPassword       string        `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName           string        `env:"POSTGRES_DB" envDefault:"orgchart"`
	DBSSLMode        string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	DBMaxOpenConns   int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"30s"`

	// Valkey (Redis-compatible). Empty address disables the distributed seed lock.
	ValkeyAddr     string `env:"VALKEY_ADDR"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`

	// Seeding
	SeedEnabled bool   `env:"SEED_ENABLED" envDefault:"true"`
	SeedCount   int    `env:"SEED_COUNT" envDefault:"1000"`
	SeedRandom  uint64 `env:"SEED_RANDOM" envDefault:"42"`

	// HTTP
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	MetricsPath  string        `env:"METRICS_PATH" envDefault:"/metrics"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads the default .env files and then the environment, applying
// defaults for development where appropriate. Returns an error if critical
// values are invalid or missing in production mode.
func Load() (*Config, error) {
	return LoadFrom(DefaultEnvFiles...)
}

// LoadFrom is Load with an explicit list of .env files. Missing files are
// skipped.
func LoadFrom(files ...string) (*Config, error) {
	if err := loadEnvFiles(files); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFiles(files []string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load %s: %w", strings.Join(existing, ", "), err)
	}
	return nil
}

func (c *Config) validate() error {
	var errs []error

	switch c.Store {
	case StorePostgres, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store))
	}
	if c.SeedCount < 1 {
		errs = append(errs, fmt.Errorf("SEED_COUNT must be at least 1, got %d", c.SeedCount))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout))
	}
	if !strings.HasPrefix(c.MetricsPath, "/") {
		errs = append(errs, fmt.Errorf("METRICS_PATH must start with /, got %q", c.MetricsPath))
	}

	if c.Env == "production" && c.Store == StorePostgres {
		if c.DBPassword == "changeme" {
			errs = append(errs, errors.New("POSTGRES_PASSWORD must be set in production"))
		}
	}

	return errors.Join(errs...)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UseValkey reports whether a Valkey address is configured.
func (c *Config) UseValkey() bool {
	return c.ValkeyAddr != ""
}
