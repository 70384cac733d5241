// Package config loads, validates and persists lectern's YAML configuration.
//
// Values are resolved in order: built-in defaults, the config file
// (~/.lectern/config.yaml or $LECTERN_HOME/config.yaml), an optional overlay
// file passed with --config, then LECTERN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/lectern/pkg/version"
)

// Defaults written by New and used for missing keys.
const (
	DefaultBaseURL           = "https://department-mangement-system-97wj.onrender.com"
	DefaultTimeoutSeconds    = 30
	DefaultRequestsPerSecond = 0.0
	DefaultOutputFormat      = "table"
	DefaultSearchDebounceMS  = 300
	DefaultLocale            = "en"
	DefaultCacheTTLSeconds   = 3600
	DefaultMemoryEntries     = 64
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"

	configFileName = "config.yaml"
	outputTypeFile = "file"
)

// Output formats accepted by output.default_format and --output.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
	FormatYAML   = "yaml"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the root of config.yaml.
type Config struct {
	Version string        `yaml:"version"`
	API     APIConfig     `yaml:"api"`
	Output  OutputConfig  `yaml:"output"`
	UI      UIConfig      `yaml:"ui"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`

	configPath string
}

// APIConfig points lectern at the portal backend.
type APIConfig struct {
	BaseURL           string  `yaml:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// OutputConfig controls non-interactive rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// UIConfig controls the interactive list views.
type UIConfig struct {
	SearchDebounceMS int    `yaml:"search_debounce_ms"`
	Locale           string `yaml:"locale"`
}

// CacheConfig controls the offline page cache.
type CacheConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Dir           string `yaml:"dir,omitempty"`
	TTLSeconds    int    `yaml:"ttl_seconds"`
	MemoryEntries int    `yaml:"memory_entries"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// Default returns a Config populated with built-in defaults and no file backing.
func Default() *Config {
	return &Config{
		Version: version.ConfigSchema,
		API: APIConfig{
			BaseURL:           DefaultBaseURL,
			TimeoutSeconds:    DefaultTimeoutSeconds,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Output: OutputConfig{DefaultFormat: DefaultOutputFormat},
		UI: UIConfig{
			SearchDebounceMS: DefaultSearchDebounceMS,
			Locale:           DefaultLocale,
		},
		Cache: CacheConfig{
			Enabled:       true,
			TTLSeconds:    DefaultCacheTTLSeconds,
			MemoryEntries: DefaultMemoryEntries,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// New returns the defaults merged with the user's config file, if readable,
// and environment overrides. Errors reading the file are ignored; use Load
// when they must be reported.
func New() *Config {
	cfg, err := Load("")
	if err != nil {
		cfg = Default()
		cfg.configPath = defaultConfigPath()
		cfg.ApplyEnv(os.LookupEnv)
	}
	return cfg
}

// Load reads the config file at path, or the default location when path is
// empty, on top of the defaults and applies environment overrides. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = defaultConfigPath()
	}
	cfg.configPath = path

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err = yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to its path with owner-only permissions.
func (c *Config) Save() error {
	path := c.ConfigPath()
	if path == "" {
		return errors.New("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// ConfigPath returns the file this config was loaded from or will be saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes where Save writes.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := version.CheckConfigSchema(c.Version); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q must be an absolute http(s) URL", ErrInvalidConfig, c.API.BaseURL)
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: api.timeout_seconds must be positive", ErrInvalidConfig)
	}
	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: api.requests_per_second cannot be negative", ErrInvalidConfig)
	}

	if !IsValidFormat(c.Output.DefaultFormat) {
		return fmt.Errorf("%w: output.default_format %q (want table, json, ndjson or yaml)",
			ErrInvalidConfig, c.Output.DefaultFormat)
	}

	if c.UI.SearchDebounceMS < 0 {
		return fmt.Errorf("%w: ui.search_debounce_ms cannot be negative", ErrInvalidConfig)
	}

	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("%w: cache.ttl_seconds cannot be negative", ErrInvalidConfig)
	}
	if c.Cache.MemoryEntries < 0 {
		return fmt.Errorf("%w: cache.memory_entries cannot be negative", ErrInvalidConfig)
	}

	switch c.Logging.Format {
	case "", "json", "console", "text":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// IsValidFormat reports whether f is a supported output format.
func IsValidFormat(f string) bool {
	switch f {
	case FormatTable, FormatJSON, FormatNDJSON, FormatYAML:
		return true
	}
	return false
}

// Timeout returns the per-request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// SearchDebounce returns the idle time before a typed search is applied.
func (u UIConfig) SearchDebounce() time.Duration {
	return time.Duration(u.SearchDebounceMS) * time.Millisecond
}

// TTL returns how long cached pages stay fresh.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func defaultConfigPath() string {
	dir, err := GetConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configFileName)
}
