package config

import (
	"errors"
	"fmt"
	"time"

	"ftour-be/internal/delivery"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort    string `env:"APP_PORT" envDefault:"8080"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`

	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`

	JWTSecret         string        `env:"JWT_SECRET"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	InternalSecretKey string        `env:"INTERNAL_SECRET_KEY"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"` // bcrypt; empty disables admin login

	// CatalogPath empty means the embedded default catalog.
	CatalogPath string `env:"CATALOG_PATH"`

	DeliveryWindows  delivery.Windows `env:"DELIVERY_WINDOWS" envDefault:"8-13:10,13-15:15"`
	DeliveryTimezone string           `env:"DELIVERY_TIMEZONE" envDefault:"Africa/Casablanca"`

	PackagePerPersonRate decimal.Decimal `env:"PACKAGE_PER_PERSON_RATE" envDefault:"8"`
}

// HasDatabase reports whether durable persistence is configured.
func (c *Config) HasDatabase() bool {
	return c.DBHost != ""
}

// Location resolves DeliveryTimezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DeliveryTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if cfg.PackagePerPersonRate.IsNegative() {
		return nil, errors.New("PACKAGE_PER_PERSON_RATE must not be negative")
	}

	return cfg, nil
}
