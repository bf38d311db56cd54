package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr         string        `env:"HTTP_ADDR" envDefault:"127.0.0.1:5173" validate:"required"`
	StorageDSN       string        `env:"STORAGE_DSN" envDefault:"sqlite://storefront.db" validate:"required"`
	APIBaseURL       string        `env:"API_BASE_URL" envDefault:"http://localhost:8000" validate:"required,url"`
	APITimeout       time.Duration `env:"API_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	NotificationTTL  time.Duration `env:"NOTIFICATION_TTL" envDefault:"3s" validate:"gt=0"`
	CatalogCacheTTL  time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"30s" validate:"gte=0"`
	CatalogCacheSize int           `env:"CATALOG_CACHE_SIZE" envDefault:"256" validate:"gte=0"`
	RoutesFile       string        `env:"ROUTES_FILE"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn warning error"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	CORSOrigins      []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173" validate:"dive,eq=*|url"`
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
