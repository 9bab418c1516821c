package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/pdfdesk/internal/logging"
)

// Config holds runtime settings for the pdfdesk client.
//
// Fields:
//   - APIURL: root URL of the PDF backend, e.g. http://localhost:8000.
//   - DebounceDelay: quiet period before a local edit is pushed to the backend.
//   - RequestTimeout: per-request timeout; 0 leaves it to the transport.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIURL         string
	DebounceDelay  time.Duration
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://localhost:8000"
	c.DebounceDelay = 500 * time.Millisecond
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api url %q: scheme must be http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api url %q: missing host", c.APIURL)
	}
	if c.DebounceDelay < 0 {
		return errors.New("debounce delay must not be negative")
	}
	if c.RequestTimeout < 0 {
		return errors.New("request timeout must not be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including an optional .env file) and from the JSON file at
// jsonPath, if given. Later sources take precedence over earlier ones.
// Command-line flags are applied on top by FromCLI.
func LoadConfig(jsonPath string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, jsonPath); err != nil {
		return nil, err
	}
	return cfg, nil
}
