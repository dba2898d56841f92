package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentuity/resource-console/logger"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{EnvBaseURL, EnvStaleTime, EnvGCTime, EnvRetry, EnvLogFormat, logger.LevelEnv} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfg, err := Load(Options{ConfigFile: filepath.Join(dir, "none.jsonc"), EnvFile: filepath.Join(dir, "none.env")})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, logger.LevelInfo, cfg.Level())
}

func TestLoadLayering(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.jsonc")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`{
		// comments and trailing commas are fine
		"base_url": "https://file.example.com",
		"stale_time": "1m",
		"gc_time": "1d",
		"retry": 2,
	}`), 0600))
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("RESOURCE_STALE_TIME=30s\nRESOURCE_LOG_LEVEL=debug\n"), 0600))
	t.Setenv(EnvRetry, "3")

	cfg, err := Load(Options{ConfigFile: cfgFile, EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", cfg.BaseURL)
	assert.Equal(t, Duration(30*time.Second), cfg.StaleTime)
	assert.Equal(t, Duration(24*time.Hour), cfg.GCTime)
	assert.Equal(t, 3, cfg.Retry)
	assert.Equal(t, logger.LevelDebug, cfg.Level())
}

func TestLoadRejectsBadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.jsonc")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`{"unknown_field": true}`), 0600))
	_, err := Load(Options{ConfigFile: cfgFile, EnvFile: filepath.Join(dir, "none")})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoadRejectsBadEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvStaleTime, "soon")
	_, err := Load(Options{ConfigFile: filepath.Join(dir, "none"), EnvFile: filepath.Join(dir, "none")})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"relative url", func(c *Config) { c.BaseURL = "/api" }, false},
		{"ftp url", func(c *Config) { c.BaseURL = "ftp://example.com" }, false},
		{"zero retry", func(c *Config) { c.Retry = 0 }, false},
		{"negative stale", func(c *Config) { c.StaleTime = Duration(-time.Second) }, false},
		{"bad level", func(c *Config) { c.LogLevel = "chatty" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidConfig))
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.jsonc")
	cfg := Default()
	cfg.BaseURL = "http://localhost:8080"
	cfg.StaleTime = Duration(45 * time.Second)

	require.NoError(t, Save(path, cfg, false))
	assert.True(t, errors.Is(Save(path, cfg, false), ErrConfigExists))
	require.NoError(t, Save(path, cfg, true))

	loaded, err := Load(Options{ConfigFile: path, EnvFile: filepath.Join(dir, "none")})
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestParseDurationUnits(t *testing.T) {
	d, err := ParseDuration("1w")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, d)
	_, err = ParseDuration("later")
	assert.Error(t, err)
}
