package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "https://api.search.brave.com/res/v1/web/search", cfg.Search.Endpoint)
	assert.Equal(t, 15*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 2, cfg.Search.MaxRetries)
	assert.Equal(t, time.Second, cfg.Search.BaseBackoff)
	assert.Equal(t, 15*time.Minute, cfg.Search.CacheTTL)
	assert.Equal(t, 10, cfg.Search.DefaultCount)
	assert.False(t, cfg.Tracer.Enabled)
	require.NoError(t, Validate(cfg))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Search.Endpoint, cfg.Search.Endpoint)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
search:
  endpoint: "https://example.test/search"
  timeout: 5s
  max_retries: 4
  base_backoff: 250ms
  cache_ttl: 1m
  rate_limit:
    enabled: true
    requests_per_second: 2
    burst: 3
logger:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/search", cfg.Search.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 4, cfg.Search.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.BaseBackoff)
	assert.Equal(t, time.Minute, cfg.Search.CacheTTL)
	assert.True(t, cfg.Search.RateLimit.Enabled)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BRAVESEARCH_API_KEY", "sk-test")
	t.Setenv("BRAVESEARCH_ENDPOINT", "https://override.test/v1")
	t.Setenv("BRAVESEARCH_TIMEOUT", "3s")
	t.Setenv("BRAVESEARCH_MAX_RETRIES", "0")
	t.Setenv("BRAVESEARCH_CACHE_TTL", "0s")

	cfg := Defaults()
	ApplyEnvOverrides(cfg)
	assert.Equal(t, "sk-test", cfg.Search.APIKey)
	assert.Equal(t, "https://override.test/v1", cfg.Search.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 0, cfg.Search.MaxRetries)
	assert.Equal(t, time.Duration(0), cfg.Search.CacheTTL)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty endpoint", func(c *Config) { c.Search.Endpoint = "" }},
		{"non-http endpoint", func(c *Config) { c.Search.Endpoint = "ftp://x" }},
		{"zero timeout", func(c *Config) { c.Search.Timeout = 0 }},
		{"negative retries", func(c *Config) { c.Search.MaxRetries = -1 }},
		{"zero backoff", func(c *Config) { c.Search.BaseBackoff = 0 }},
		{"count out of range", func(c *Config) { c.Search.DefaultCount = 51 }},
		{"rate limit without rate", func(c *Config) {
			c.Search.RateLimit.Enabled = true
			c.Search.RateLimit.RequestsPerSecond = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := EncryptValue("brave-token-123", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, enc, "enc:")
	assert.NotContains(t, enc, "brave-token-123")

	dec, err := DecryptValue(enc, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "brave-token-123", dec)

	_, err = DecryptValue(enc, "wrong")
	assert.Error(t, err)
}

func TestDecryptPlaintextPassthrough(t *testing.T) {
	dec, err := DecryptValue("not-encrypted", "anything")
	require.NoError(t, err)
	assert.Equal(t, "not-encrypted", dec)
}

func TestLoadDecryptsAPIKey(t *testing.T) {
	enc, err := EncryptValue("secret-key", "pass")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  api_key: \""+enc+"\"\n"), 0600))
	t.Setenv("BRAVESEARCH_CONFIG_KEY", "pass")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.Search.APIKey)
}
