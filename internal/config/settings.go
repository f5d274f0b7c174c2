package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings holds front-end options read from the environment
type Settings struct {
	// DBPath is the solve history database
	DBPath string `env:"CUBIC_DB_PATH" envDefault:".cubic/history.db"`

	// NoColor disables colored output (NO_COLOR is honored as well)
	NoColor bool `env:"CUBIC_NO_COLOR"`

	// Workers bounds concurrent solves in batch mode
	Workers int `env:"CUBIC_WORKERS" envDefault:"4"`
}

// SettingsFromEnv loads Settings from the environment
func SettingsFromEnv() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parse env: %w", err)
	}
	if s.Workers < 1 || s.Workers > 256 {
		return s, fmt.Errorf("CUBIC_WORKERS must be between 1 and 256 (got %d)", s.Workers)
	}
	return s, nil
}
