// Package config resolves the console's settings. Sources are layered, each
// overriding the previous: defaults, JSONC config file, .env file, process
// environment. Command line flags are applied by the caller on top.
package config

import (
	"bytes"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/agentuity/resource-console/env"
	"github.com/agentuity/resource-console/logger"
	"github.com/cockroachdb/errors"
	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
	"github.com/xhit/go-str2duration/v2"
)

const (
	DefaultBaseURL   = "https://dummyjson.com"
	DefaultStaleTime = time.Duration(0)
	DefaultGCTime    = 5 * time.Minute

	EnvBaseURL   = "RESOURCE_API_URL"
	EnvStaleTime = "RESOURCE_STALE_TIME"
	EnvGCTime    = "RESOURCE_GC_TIME"
	EnvRetry     = "RESOURCE_RETRY"
	EnvLogFormat = "RESOURCE_LOG_FORMAT"
	EnvConfig    = "RESOURCE_CONFIG"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrConfigExists  = errors.New("config file already exists")
)

// Duration is a time.Duration that reads "30s", "5m" or "1d" from JSON.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		var n int64
		if nerr := json.Unmarshal(buf, &n); nerr != nil {
			return errors.Wrap(err, "duration must be a string like \"30s\"")
		}
		*d = Duration(time.Duration(n) * time.Millisecond)
		return nil
	}
	v, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config holds every setting the console needs.
type Config struct {
	// BaseURL is the remote API root every resource path is joined to.
	BaseURL string `json:"base_url"`
	// StaleTime is how long fetched data is served without a background refetch.
	// Zero means data stays fresh until it is invalidated.
	StaleTime Duration `json:"stale_time"`
	// GCTime is how long an unobserved entry is kept before it is evicted.
	GCTime Duration `json:"gc_time"`
	// Retry is the number of attempts per request; 1 disables retries.
	Retry     int    `json:"retry"`
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		StaleTime: Duration(DefaultStaleTime),
		GCTime:    Duration(DefaultGCTime),
		Retry:     1,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Level returns the configured log level, defaulting to info.
func (c Config) Level() logger.LogLevel {
	level, _ := logger.ParseLevel(c.LogLevel, logger.LevelInfo)
	return level
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Wrapf(ErrInvalidConfig, "base url %q must be an absolute http(s) url", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Wrapf(ErrInvalidConfig, "base url scheme %q is not supported", u.Scheme)
	}
	if c.StaleTime < 0 || c.GCTime < 0 {
		return errors.Wrap(ErrInvalidConfig, "durations must not be negative")
	}
	if c.Retry < 1 {
		return errors.Wrapf(ErrInvalidConfig, "retry must be at least 1, got %d", c.Retry)
	}
	if _, ok := logger.ParseLevel(c.LogLevel, logger.LevelInfo); !ok {
		return errors.Wrapf(ErrInvalidConfig, "unknown log level %q", c.LogLevel)
	}
	return nil
}

// ParseDuration accepts Go durations plus day and week units.
func ParseDuration(s string) (time.Duration, error) {
	d, err := str2duration.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidConfig, "invalid duration %q", s)
	}
	return d, nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "resource-console", "config.jsonc")
}

// Options control where Load looks.
type Options struct {
	// ConfigFile is the JSONC file to read; DefaultPath is used when empty.
	ConfigFile string
	// EnvFile is the dotenv file to read; ".env" is used when empty.
	EnvFile string
}

// Load resolves the configuration from file, .env and the environment.
// Missing files are not an error; malformed ones are.
func Load(opts Options) (Config, error) {
	cfg := Default()

	path := opts.ConfigFile
	if path == "" {
		path = DefaultPath()
	}
	if buf, err := os.ReadFile(path); err == nil {
		if err := parseFile(buf, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "config file %s", path)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, errors.Wrapf(err, "reading config file %s", path)
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	lines, err := env.ParseEnvFile(envFile)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading %s", envFile)
	}
	if err := applyEnv(&cfg, env.ToMap(lines)); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func parseFile(buf []byte, cfg *Config) error {
	standardized, err := hujson.Standardize(buf)
	if err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return nil
}

func applyEnv(cfg *Config, file map[string]string) error {
	if v, ok := env.Lookup(file, EnvBaseURL); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := env.Lookup(file, EnvStaleTime); ok && v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, EnvStaleTime)
		}
		cfg.StaleTime = Duration(d)
	}
	if v, ok := env.Lookup(file, EnvGCTime); ok && v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, EnvGCTime)
		}
		cfg.GCTime = Duration(d)
	}
	if v, ok := env.Lookup(file, EnvRetry); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "%s=%q is not a number", EnvRetry, v)
		}
		cfg.Retry = n
	}
	if v, ok := env.Lookup(file, logger.LevelEnv); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := env.Lookup(file, EnvLogFormat); ok && v != "" {
		cfg.LogFormat = v
	}
	return nil
}

const fileHeader = `// resource-console configuration (JSON with comments).
// Environment variables RESOURCE_API_URL, RESOURCE_STALE_TIME, RESOURCE_GC_TIME,
// RESOURCE_RETRY and RESOURCE_LOG_LEVEL override these values.
`

// Save writes cfg to path atomically. An existing file is only replaced when
// overwrite is true.
func Save(path string, cfg Config, overwrite bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !overwrite {
		return errors.Wrap(ErrConfigExists, path)
	}
	buf, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	content := append([]byte(fileHeader), buf...)
	content = append(content, '\n')
	if err := atomic.WriteFile(path, bytes.NewReader(content)); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
