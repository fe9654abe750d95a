// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration.
type Config struct {
	// Server
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`

	// Machine-to-machine key for the pipeline endpoints (cache refresh).
	PipelineAPIKey string `env:"PIPELINE_API_KEY"`

	// Market data
	QuoteTTL            time.Duration `env:"QUOTE_TTL" envDefault:"1h"`
	ProviderTimeout     time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"15s"`
	ProviderMinInterval time.Duration `env:"PROVIDER_MIN_INTERVAL" envDefault:"500ms"`
	// Parsed through decimal's TextUnmarshaler so it can be handed to the
	// market data layer without a float round trip.
	DefaultUSDCADRate decimal.Decimal `env:"DEFAULT_USDCAD_RATE" envDefault:"1.35"`
}

// Load reads configuration from a .env file (if present) and the
// environment.
func Load() (*Config, error) {
	// Missing .env is fine; env vars may be set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
