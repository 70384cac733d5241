package config

import (
	"strconv"
	"strings"
)

// Environment variables that override config file values.
const (
	EnvHome           = "LECTERN_HOME"
	EnvAPIURL         = "LECTERN_API_URL"
	EnvAPITimeout     = "LECTERN_API_TIMEOUT_SECONDS"
	EnvOutputFormat   = "LECTERN_OUTPUT_FORMAT"
	EnvLogLevel       = "LECTERN_LOG_LEVEL"
	EnvLogFormat      = "LECTERN_LOG_FORMAT"
	EnvLogFile        = "LECTERN_LOG_FILE"
	EnvCacheEnabled   = "LECTERN_CACHE_ENABLED"
	EnvCacheDir       = "LECTERN_CACHE_DIR"
	EnvCacheTTL       = "LECTERN_CACHE_TTL_SECONDS"
	EnvSearchDebounce = "LECTERN_SEARCH_DEBOUNCE_MS"
	EnvLocale         = "LECTERN_LOCALE"
)

// LookupEnvFunc matches os.LookupEnv so tests can inject an environment.
type LookupEnvFunc func(key string) (string, bool)

// ApplyEnv overrides fields from LECTERN_* variables. Unparseable numeric or
// boolean values are ignored and leave the current value in place.
func (c *Config) ApplyEnv(lookup LookupEnvFunc) {
	if lookup == nil {
		return
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}

	str(EnvAPIURL, &c.API.BaseURL)
	integer(EnvAPITimeout, &c.API.TimeoutSeconds)
	str(EnvOutputFormat, &c.Output.DefaultFormat)
	str(EnvLogLevel, &c.Logging.Level)
	str(EnvLogFormat, &c.Logging.Format)
	str(EnvLogFile, &c.Logging.File)
	str(EnvCacheDir, &c.Cache.Dir)
	integer(EnvCacheTTL, &c.Cache.TTLSeconds)
	integer(EnvSearchDebounce, &c.UI.SearchDebounceMS)
	str(EnvLocale, &c.UI.Locale)

	if v, ok := lookup(EnvCacheEnabled); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Cache.Enabled = b
		}
	}
}
