package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend BackendConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// BackendConfig points at the remote REST API.
type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:5000/api" validate:"required,url"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"                       validate:"gt=0"`
}

type SessionConfig struct {
	// Store selects the durable session backend.
	Store        string        `env:"SESSION_BACKEND,       default=memory"     validate:"oneof=memory redis mongo"`
	Cookie       string        `env:"SESSION_COOKIE,        default=portal_sid" validate:"required"`
	TTL          time.Duration `env:"SESSION_TTL,           default=24h"        validate:"gte=0"`
	SecureCookie bool          `env:"SESSION_COOKIE_SECURE, default=false"`

	// SweepInterval paces expiry sweeps of the in-memory backend.
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL, default=1m" validate:"gt=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=medportal"`
}

type RedisConfig struct {
	URL  string `env:"REDIS_URL"`
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Production reports whether the process runs with ENV=production.
func (c *Config) Production() bool { return c.Env == "production" }

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := Parse(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// Parse reads configuration from l and validates it.
func Parse(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
