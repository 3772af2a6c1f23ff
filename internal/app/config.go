package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"60s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// AppPassword gates the API behind the X-App-Password header.
	// Empty disables the gate.
	AppPassword string `envconfig:"APP_PASSWORD"`

	LedgerBaseURL string        `envconfig:"LEDGER_BASE_URL" default:"https://api.qoyod.com/2.0"`
	LedgerAPIKey  string        `envconfig:"LEDGER_API_KEY" required:"true"`
	LedgerTimeout time.Duration `envconfig:"LEDGER_TIMEOUT" default:"30s"`

	// RedisAddr is optional; empty runs without the accounts cache.
	RedisAddr        string        `envconfig:"REDIS_ADDR"`
	AccountsCacheTTL time.Duration `envconfig:"ACCOUNTS_CACHE_TTL" default:"10m"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.LedgerAPIKey == "" {
		return nil, errors.New("ledger api key must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
