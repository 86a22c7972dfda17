package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
)

const envDev = "dev"

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"dev"`
	DBPath   string `env:"DB_PATH" envDefault:"./dev.db"`
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CircleRateOffset is added to every resolved circle rate. Keep it at 0
	// unless the business has agreed a temporary adjustment.
	CircleRateOffset float64 `env:"CIRCLE_RATE_OFFSET" envDefault:"0"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
	SeedDemoItem   bool    `env:"SEED_DEMO_ITEM" envDefault:"true"`
}

// Load reads .env (if present) and the environment and returns a populated Config.
func Load() (Config, error) {
	// Best-effort: production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.RateLimitRPS <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS must be greater than 0")
	}
	if cfg.RateLimitBurst < 1 {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}
	return cfg, nil
}

// IsDev reports whether the app runs in the local development environment.
func (c Config) IsDev() bool {
	return c.Env == envDev
}

// Warnings lists settings that are legal but worth a look at startup.
func (c Config) Warnings() []string {
	var out []string
	if c.CircleRateOffset != 0 {
		out = append(out, fmt.Sprintf("CIRCLE_RATE_OFFSET is %g: every circle rate is shifted", c.CircleRateOffset))
	}
	if !c.IsDev() && c.DBPath == "./dev.db" {
		out = append(out, "DB_PATH is the development default outside dev")
	}
	return out
}
