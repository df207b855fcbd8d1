package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"clockify-button/internal/validate"
)

// Config holds environment-driven configuration.
type Config struct {
	Clockify ClockifyConfig
	MySQL    MySQLConfig
	Redis    RedisConfig
	HTTP     HTTPConfig
}

type ClockifyConfig struct {
	BaseURL   string        `env:"CLOCKIFY_BASE_URL, default=https://api.clockify.me/api/" validate:"required,url"`
	TokenFile string        `env:"CLOCKIFY_TOKEN_FILE"` // default: ~/clockify-token.txt
	Timeout   time.Duration `env:"CLOCKIFY_TIMEOUT, default=30s" validate:"gt=0"`
	// Workspace and Project are names or ids. Blank values are reported by
	// the toggle run, not at load time.
	Workspace string `env:"CLOCKIFY_WORKSPACE"`
	Project   string `env:"CLOCKIFY_PROJECT"`
}

type MySQLConfig struct {
	DSN string `env:"MYSQL_DSN"` // e.g., user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
}

type RedisConfig struct {
	Addr    string        `env:"REDIS_ADDR"` // empty: in-process guard only
	DB      int           `env:"REDIS_DB, default=0" validate:"min=0"`
	LockTTL time.Duration `env:"LOCK_TTL, default=2m" validate:"gt=0"`
}

type HTTPConfig struct {
	Addr      string `env:"HTTP_ADDR, default=:8080" validate:"required"`
	JWTSecret string `env:"TRIGGER_JWT_SECRET"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	cfg.Clockify.Workspace = strings.TrimSpace(cfg.Clockify.Workspace)
	cfg.Clockify.Project = strings.TrimSpace(cfg.Clockify.Project)
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
