// Package config loads service configuration from the environment.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Defaults.
const (
	DefaultAddr     = "127.0.0.1:8080"
	DefaultLogLevel = "info"
)

// Config holds the service configuration.
type Config struct {
	DatabaseURL string        `validate:"required"`
	Addr        string        `validate:"required,hostname_port"`
	JWTSecret   string        `validate:"required,min=16"`
	LogLevel    string        `validate:"oneof=debug info warn error"`
	TokenTTL    time.Duration `validate:"gt=0"`
}

// Load reads configuration from environment variables, applying defaults
// for optional fields and validating the result.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Addr:        envOr("ADDR", DefaultAddr),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogLevel:    envOr("LOG_LEVEL", DefaultLogLevel),
		TokenTTL:    24 * time.Hour,
	}

	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.Wrap(err, "parsing TOKEN_TTL")
		}
		cfg.TokenTTL = ttl
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "validating configuration")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
