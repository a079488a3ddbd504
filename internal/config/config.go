// Package config loads server configuration from EDUPILOT_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/edupilot-ai/edupilot/logging"
)

// Known generation providers.
const (
	ProviderBuiltin   = "builtin"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the resolved server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// Provider selects the generation backend: builtin, openai or anthropic.
	Provider string
	// ModelName overrides the provider's default model.
	ModelName string
	// LogLevel is the minimum log level.
	LogLevel logging.LogLevel
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:      getenv("EDUPILOT_ADDR", ":8080"),
		Provider:  strings.ToLower(getenv("EDUPILOT_PROVIDER", ProviderBuiltin)),
		ModelName: os.Getenv("EDUPILOT_MODEL"),
		LogLevel:  logging.LogLevelInfo,
	}

	switch cfg.Provider {
	case ProviderBuiltin, ProviderOpenAI, ProviderAnthropic:
	default:
		return nil, fmt.Errorf("config: unknown provider %q", cfg.Provider)
	}

	switch strings.ToLower(os.Getenv("EDUPILOT_LOG_LEVEL")) {
	case "", "info":
		cfg.LogLevel = logging.LogLevelInfo
	case "debug":
		cfg.LogLevel = logging.LogLevelDebug
	case "warn", "warning":
		cfg.LogLevel = logging.LogLevelWarn
	case "error":
		cfg.LogLevel = logging.LogLevelError
	default:
		return nil, fmt.Errorf("config: unknown log level %q", os.Getenv("EDUPILOT_LOG_LEVEL"))
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
