// Package version exposes the build version and the supported config schema.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// version is set at build time via -ldflags "-X github.com/rshade/lectern/pkg/version.version=...".
//
//nolint:gochecknoglobals // Overridden by the linker.
var version = "0.1.0-dev"

// ConfigSchema is the config file schema version written by this build.
const ConfigSchema = "1.0.0"

// configConstraint accepts any config schema sharing ConfigSchema's major version.
const configConstraint = "^1.0.0"

// GetVersion returns the build version.
func GetVersion() string {
	return version
}

// CheckConfigSchema reports whether a config file written with schema v can be read.
// An empty version is treated as the current schema.
func CheckConfigSchema(v string) error {
	if v == "" {
		return nil
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("config version %q is not a valid semantic version: %w", v, err)
	}
	constraint, err := semver.NewConstraint(configConstraint)
	if err != nil {
		return fmt.Errorf("parsing config constraint: %w", err)
	}
	if !constraint.Check(parsed) {
		return fmt.Errorf("config version %s is not supported (expected %s)", parsed, configConstraint)
	}
	return nil
}
