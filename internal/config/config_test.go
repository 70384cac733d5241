package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout())
	assert.Equal(t, 300*time.Millisecond, cfg.UI.SearchDebounce())
	assert.Equal(t, time.Hour, cfg.Cache.TTL())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, path, cfg.ConfigPath())
		assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
version: "1.0.0"
api:
  base_url: https://portal.example.edu
output:
  default_format: yaml
ui:
  locale: fr
`), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://portal.example.edu", cfg.API.BaseURL)
		// Keys absent from the file keep their defaults.
		assert.Equal(t, DefaultTimeoutSeconds, cfg.API.TimeoutSeconds)
		assert.Equal(t, FormatYAML, cfg.Output.DefaultFormat)
		assert.Equal(t, "fr", cfg.UI.Locale)
		assert.Equal(t, DefaultSearchDebounceMS, cfg.UI.SearchDebounceMS)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api: [oops"), 0600))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config")
	})

	t.Run("unsupported schema", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`version: "2.0.0"`), 0600))
		_, err := Load(path)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.SetConfigPath(path)
	cfg.Output.DefaultFormat = FormatJSON
	cfg.Cache.MemoryEntries = 8
	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, loaded.Output.DefaultFormat)
	assert.Equal(t, 8, loaded.Cache.MemoryEntries)

	assert.Error(t, (&Config{}).Save())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"relative base url", func(c *Config) { c.API.BaseURL = "/api" }, "api.base_url"},
		{"ftp base url", func(c *Config) { c.API.BaseURL = "ftp://portal" }, "api.base_url"},
		{"zero timeout", func(c *Config) { c.API.TimeoutSeconds = 0 }, "api.timeout_seconds"},
		{"negative rate", func(c *Config) { c.API.RequestsPerSecond = -1 }, "requests_per_second"},
		{"unknown format", func(c *Config) { c.Output.DefaultFormat = "csv" }, "output.default_format"},
		{"negative debounce", func(c *Config) { c.UI.SearchDebounceMS = -5 }, "search_debounce_ms"},
		{"negative ttl", func(c *Config) { c.Cache.TTLSeconds = -1 }, "cache.ttl_seconds"},
		{"negative memory", func(c *Config) { c.Cache.MemoryEntries = -1 }, "cache.memory_entries"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad schema", func(c *Config) { c.Version = "banana" }, "config version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIURL:         "https://staging.example.edu",
		EnvAPITimeout:     "12",
		EnvOutputFormat:   "ndjson",
		EnvLogLevel:       "debug",
		EnvCacheEnabled:   "false",
		EnvCacheTTL:       "not-a-number",
		EnvSearchDebounce: "0",
		EnvLocale:         " sv ",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	cfg.ApplyEnv(lookup)

	assert.Equal(t, "https://staging.example.edu", cfg.API.BaseURL)
	assert.Equal(t, 12, cfg.API.TimeoutSeconds)
	assert.Equal(t, FormatNDJSON, cfg.Output.DefaultFormat)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, DefaultCacheTTLSeconds, cfg.Cache.TTLSeconds, "unparseable value is ignored")
	assert.Zero(t, cfg.UI.SearchDebounceMS)
	assert.Equal(t, "sv", cfg.UI.Locale)

	cfg.ApplyEnv(nil)
}

func TestIsValidFormat(t *testing.T) {
	for _, f := range []string{"table", "json", "ndjson", "yaml"} {
		assert.True(t, IsValidFormat(f), f)
	}
	assert.False(t, IsValidFormat("csv"))
	assert.False(t, IsValidFormat(""))
}
