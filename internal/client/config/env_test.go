package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIURL, "http://backend:9000")
	t.Setenv(EnvDebounce, "250ms")
	t.Setenv(EnvRequestTimeout, "5s")
	t.Setenv(EnvLogLevel, "debug")

	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(&cfg))

	assert.Equal(t, "http://backend:9000", cfg.APIURL)
	assert.Equal(t, 250*time.Millisecond, cfg.DebounceDelay)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseEnv_LegacyURLFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLegacyAPIURL, "http://legacy:3001")

	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(&cfg))
	assert.Equal(t, "http://legacy:3001", cfg.APIURL)

	t.Setenv(EnvAPIURL, "http://primary:3002")
	require.NoError(t, parseEnv(&cfg))
	assert.Equal(t, "http://primary:3002", cfg.APIURL)
}

func TestParseEnv_BadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDebounce, "soon")

	var cfg Config
	cfg.LoadDefaults()
	require.Error(t, parseEnv(&cfg))
}

func TestParseEnv_ReadsDotEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv(EnvRequestTimeout)
	t.Cleanup(func() { os.Unsetenv(EnvRequestTimeout) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PDFDESK_REQUEST_TIMEOUT=7s\n"), 0o600))
	dotEnvFile = path

	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(&cfg))
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
}
