package config

import (
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL"` // empty keeps drawings in memory
	JWTSecret   string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	// APIKeyHash is a bcrypt hash of the shared API key. Empty disables
	// authentication.
	APIKeyHash     string `envconfig:"API_KEY_HASH"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	AssetDir       string `envconfig:"ASSET_DIR" default:"./data/assets"`

	PageWidth  float64 `envconfig:"PAGE_WIDTH" default:"210"`
	PageHeight float64 `envconfig:"PAGE_HEIGHT" default:"297"`
	PageUnit   string  `envconfig:"PAGE_UNIT" default:"mm"`

	MaxScriptBytes int64  `envconfig:"MAX_SCRIPT_BYTES" default:"1048576"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.PageWidth <= 0 || cfg.PageHeight <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %gx%g", cfg.PageWidth, cfg.PageHeight)
	}
	if cfg.MaxScriptBytes <= 0 {
		return nil, fmt.Errorf("MAX_SCRIPT_BYTES must be positive, got %d", cfg.MaxScriptBytes)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}
