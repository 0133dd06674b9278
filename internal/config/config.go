package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server configuration.
type Config struct {
	ServerPort     int           `env:"PORT" envDefault:"8080"`
	DatabaseDriver string        `env:"DATABASE_DRIVER" envDefault:"sqlite"` // sqlite or pgx
	DatabaseDSN    string        `env:"DATABASE_DSN" envDefault:"file:messenger.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"`
	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	AppEnv         string        `env:"APP_ENV" envDefault:"development"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`

	// Audit events older than EventRetention are pruned on EventRetentionSchedule.
	EventRetention         time.Duration `env:"EVENT_RETENTION" envDefault:"720h"`
	EventRetentionSchedule string        `env:"EVENT_RETENTION_SCHEDULE" envDefault:"@daily"`
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DatabaseDriver != "sqlite" && cfg.DatabaseDriver != "pgx" {
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	return cfg, nil
}

// ClientConfig holds the terminal client configuration.
type ClientConfig struct {
	ServerURL string        `env:"AUTHCLI_SERVER_URL" envDefault:"http://localhost:8080"`
	Timeout   time.Duration `env:"AUTHCLI_TIMEOUT" envDefault:"10s"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"warn"`
}

// LoadClient loads the terminal client configuration from the environment.
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
