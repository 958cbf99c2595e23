package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name   string `envconfig:"APP_NAME" default:"Backoffice"`
		Port   int    `envconfig:"PORT" default:"8080"`
		Locale string `envconfig:"LOCALE" default:"en"`
		// ISO 4217 code used by the summary cards.
		Currency string `envconfig:"CURRENCY" default:"USD"`
	}

	API struct {
		URL     string        `envconfig:"API_URL" default:"http://localhost:3001/api"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"0s"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		FlashSecret string        `envconfig:"FLASH_SECRET" default:"change-me"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	}

	Gate struct {
		FailMode string `envconfig:"GATE_FAIL_MODE" default:"open"`
	}
}

// FailOpen reports whether a failed balance-status query lets the user through.
func (c *Config) FailOpen() bool {
	return c.Gate.FailMode != "closed"
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Gate.FailMode {
	case "open", "closed":
	default:
		return nil, fmt.Errorf("invalid GATE_FAIL_MODE %q: want open or closed", cfg.Gate.FailMode)
	}

	return &cfg, nil
}
