// Package config loads environment settings and camera description files.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// WarningsConfig controls how deprecation notices are reported.
type WarningsConfig struct {
	// Policy is one of "once", "location", "always" or "ignore".
	Policy string `env:"CAMERAVISION_WARNINGS" envDefault:"once"`
	// Quiet keeps notices in the registry but stops them reaching the log.
	Quiet bool `env:"CAMERAVISION_WARNINGS_QUIET" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvFrom loads configuration from the given variables instead of the
// process environment.
func ParseEnvFrom(target any, environ map[string]string) error {
	if err := env.ParseWithOptions(target, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadWarningsConfig reads WarningsConfig from the process environment.
func LoadWarningsConfig() (WarningsConfig, error) {
	var cfg WarningsConfig
	if err := ParseEnv(&cfg); err != nil {
		return WarningsConfig{}, err
	}
	return cfg, nil
}
