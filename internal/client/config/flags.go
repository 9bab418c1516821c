package config

import (
	"github.com/urfave/cli/v2"
)

const (
	flagConfig   = "config"
	flagAPIURL   = "api-url"
	flagDebounce = "debounce"
	flagTimeout  = "timeout"
	flagLogLevel = "log-level"
)

// Flags returns the global command-line flags understood by FromCLI.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagConfig, Aliases: []string{"c"}, Usage: "path to JSON config file"},
		&cli.StringFlag{Name: flagAPIURL, Aliases: []string{"a"}, Usage: "root URL of the PDF backend"},
		&cli.DurationFlag{Name: flagDebounce, Aliases: []string{"d"}, Usage: "quiet period before edits are saved"},
		&cli.DurationFlag{Name: flagTimeout, Aliases: []string{"t"}, Usage: "per-request timeout (0 = none)"},
		&cli.StringFlag{Name: flagLogLevel, Usage: "debug, info, warn or error"},
	}
}

// FromCLI resolves the full configuration: defaults, environment, the JSON
// file named by --config, then any flag explicitly set on the command line.
func FromCLI(c *cli.Context) (*Config, error) {
	cfg, err := LoadConfig(c.String(flagConfig))
	if err != nil {
		return nil, err
	}

	if c.IsSet(flagAPIURL) {
		cfg.APIURL = c.String(flagAPIURL)
	}
	if c.IsSet(flagDebounce) {
		cfg.DebounceDelay = c.Duration(flagDebounce)
	}
	if c.IsSet(flagTimeout) {
		cfg.RequestTimeout = c.Duration(flagTimeout)
	}
	if c.IsSet(flagLogLevel) {
		cfg.LogLevel = c.String(flagLogLevel)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
