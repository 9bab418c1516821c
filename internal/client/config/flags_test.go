package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runFromCLI(t *testing.T, args ...string) (*Config, error) {
	t.Helper()

	var (
		got    *Config
		gotErr error
	)
	app := &cli.App{
		Name:  "pdfdesk",
		Flags: Flags(),
		Action: func(c *cli.Context) error {
			got, gotErr = FromCLI(c)
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"pdfdesk"}, args...)))
	return got, gotErr
}

func TestFromCLI(t *testing.T) {
	clearEnv(t)
	jsonPath := writeTempJSON(t, "", "", map[string]any{
		"api_url":        "http://from-json:1",
		"debounce_delay": "2s",
	})

	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "defaults",
			args: nil,
			expected: &Config{APIURL: "http://localhost:8000", DebounceDelay: 500 * time.Millisecond,
				RequestTimeout: 30 * time.Second, LogLevel: "info"},
		},
		{
			name: "flags override defaults",
			args: []string{"-a", "http://127.0.0.1:9090", "-d", "50ms", "-t", "0s", "--log-level", "debug"},
			expected: &Config{APIURL: "http://127.0.0.1:9090", DebounceDelay: 50 * time.Millisecond,
				RequestTimeout: 0, LogLevel: "debug"},
		},
		{
			name: "flags override json",
			args: []string{"--config", jsonPath, "--api-url", "http://flag:2"},
			expected: &Config{APIURL: "http://flag:2", DebounceDelay: 2 * time.Second,
				RequestTimeout: 30 * time.Second, LogLevel: "info"},
		},
		{
			name:    "invalid url",
			args:    []string{"-a", "not a url"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := runFromCLI(t, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
