package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvAPIURL         = "PDFDESK_API_URL"
	EnvLegacyAPIURL   = "NEXT_PUBLIC_API_URL"
	EnvDebounce       = "PDFDESK_DEBOUNCE"
	EnvRequestTimeout = "PDFDESK_REQUEST_TIMEOUT"
	EnvLogLevel       = "PDFDESK_LOG_LEVEL"
)

// dotEnvFile is read before the environment is consulted. A missing file is
// not an error; variables already set in the process win over the file.
var dotEnvFile = ".env"

// parseEnv overlays cfg with environment variables.
//
// PDFDESK_API_URL falls back to NEXT_PUBLIC_API_URL so an existing web
// front-end .env can be reused as is.
func parseEnv(cfg *Config) error {
	if _, err := os.Stat(dotEnvFile); err == nil {
		if err := godotenv.Load(dotEnvFile); err != nil {
			return fmt.Errorf("load %s: %w", dotEnvFile, err)
		}
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	} else if v := os.Getenv(EnvLegacyAPIURL); v != "" {
		cfg.APIURL = v
	}

	if v := os.Getenv(EnvDebounce); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebounce, err)
		}
		cfg.DebounceDelay = d
	}

	if v := os.Getenv(EnvRequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	return nil
}
