package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Search SearchConfig `yaml:"search"`
	Logger LoggerConfig `yaml:"logger"`
	Tracer TracerConfig `yaml:"tracer"`
}

// SearchConfig holds the search client settings. This is the complete
// configuration surface: endpoint, timeout, retry budget, backoff base,
// cache TTL, count bound, rate limiting and circuit breaking.
type SearchConfig struct {
	// Endpoint is the base URL of the web-search service.
	Endpoint string `yaml:"endpoint"`
	// APIKey is the subscription token. May be stored encrypted with the
	// "enc:" prefix; see DecryptValue. Never logged.
	APIKey string `yaml:"api_key"`
	// Timeout bounds each individual attempt.
	Timeout time.Duration `yaml:"timeout"`
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int `yaml:"max_retries"`
	// BaseBackoff is the delay before the first retry; it doubles on
	// each subsequent one.
	BaseBackoff time.Duration `yaml:"base_backoff"`
	// CacheTTL is how long responses are served from cache. Zero or
	// negative disables caching.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// DefaultCount is the result count used when a caller does not set one.
	DefaultCount int `yaml:"default_count"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Breaker   BreakerConfig   `yaml:"breaker"`
}

// RateLimitConfig holds the shared client-side token bucket settings,
// protecting the service's global rate ceiling across concurrent calls.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// BreakerConfig holds circuit breaker settings for the transport.
type BreakerConfig struct {
	Enabled bool `yaml:"enabled"`
	// MaxFailures is the number of consecutive failures before the
	// circuit opens.
	MaxFailures uint32 `yaml:"max_failures"`
	// Timeout is how long the circuit stays open before a probe.
	Timeout time.Duration `yaml:"timeout"`
	// Interval is the cyclic period of the closed state for clearing
	// failure counts. Zero means failures never reset until trip.
	Interval time.Duration `yaml:"interval"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Search: SearchConfig{
			Endpoint:     "https://api.search.brave.com/res/v1/web/search",
			Timeout:      15 * time.Second,
			MaxRetries:   2,
			BaseBackoff:  time.Second,
			CacheTTL:     15 * time.Minute,
			DefaultCount: 10,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 1,
				Burst:             1,
			},
			Breaker: BreakerConfig{
				Enabled:     false,
				MaxFailures: 5,
				Timeout:     30 * time.Second,
				Interval:    60 * time.Second,
			},
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file, applies env var overrides, and decrypts
// the API key if a passphrase is available. A missing file is not an
// error; defaults plus env overrides apply.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// fall through to env overrides
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if passphrase := os.Getenv("BRAVESEARCH_CONFIG_KEY"); passphrase != "" {
		if strings.HasPrefix(cfg.Search.APIKey, encPrefix) {
			key, err := DecryptValue(cfg.Search.APIKey, passphrase)
			if err != nil {
				return nil, fmt.Errorf("decrypt api key: %w", err)
			}
			cfg.Search.APIKey = key
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides maps BRAVESEARCH_* env vars onto config fields.
// BRAVE_API_KEY is also honored for compatibility with the usual
// credential convention.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BRAVE_API_KEY"); v != "" {
		cfg.Search.APIKey = v
	}
	if v := os.Getenv("BRAVESEARCH_API_KEY"); v != "" {
		cfg.Search.APIKey = v
	}
	if v := os.Getenv("BRAVESEARCH_ENDPOINT"); v != "" {
		cfg.Search.Endpoint = v
	}
	if v := os.Getenv("BRAVESEARCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Search.Timeout = d
		}
	}
	if v := os.Getenv("BRAVESEARCH_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Search.MaxRetries = n
		}
	}
	if v := os.Getenv("BRAVESEARCH_BASE_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Search.BaseBackoff = d
		}
	}
	if v := os.Getenv("BRAVESEARCH_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Search.CacheTTL = d
		}
	}
	if v := os.Getenv("BRAVESEARCH_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("BRAVESEARCH_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("BRAVESEARCH_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}

// Validate rejects configurations the client cannot run with.
func Validate(cfg *Config) error {
	s := cfg.Search
	if s.Endpoint == "" {
		return fmt.Errorf("config: search.endpoint must not be empty")
	}
	if !strings.HasPrefix(s.Endpoint, "http://") && !strings.HasPrefix(s.Endpoint, "https://") {
		return fmt.Errorf("config: search.endpoint %q is not an HTTP(S) URL", s.Endpoint)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("config: search.timeout must be positive")
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("config: search.max_retries must not be negative")
	}
	if s.BaseBackoff <= 0 {
		return fmt.Errorf("config: search.base_backoff must be positive")
	}
	if s.DefaultCount < 1 || s.DefaultCount > 50 {
		return fmt.Errorf("config: search.default_count %d outside [1,50]", s.DefaultCount)
	}
	if s.RateLimit.Enabled && s.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("config: search.rate_limit.requests_per_second must be positive")
	}
	return nil
}
