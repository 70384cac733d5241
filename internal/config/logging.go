package config

import (
	"github.com/rshade/lectern/internal/logging"
)

// ToLoggingConfig converts the logging section to a logging.Config.
// A configured file switches the output to that file; otherwise logs go to stderr.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = outputTypeFile
	}

	format := lc.Format
	if format == "text" {
		format = logging.FormatConsole
	}

	return logging.Config{
		Level:  lc.Level,
		Format: format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the global config's logging section.
// Callers apply flag overrides such as --debug on the returned value.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
