package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// RetentionConfig controls pruning of the solve history
type RetentionConfig struct {
	// RetentionDays deletes records older than this many days
	// Set to 0 to keep records regardless of age
	// Default: 90, Range: 0-3650
	RetentionDays int `env:"CUBIC_HISTORY_RETENTION_DAYS" envDefault:"90"`

	// MaxRecords caps the number of records kept, oldest deleted first
	// Set to 0 for unlimited
	// Default: 1000, Range: 0 or 10-1000000
	MaxRecords int `env:"CUBIC_HISTORY_MAX_RECORDS" envDefault:"1000"`

	// BatchSize is the number of records deleted per statement
	// Default: 500, Range: 1-10000
	BatchSize int `env:"CUBIC_HISTORY_CLEANUP_BATCH_SIZE" envDefault:"500"`

	// Enabled controls whether history is pruned after each command
	// Default: true
	Enabled bool `env:"CUBIC_HISTORY_CLEANUP_ENABLED" envDefault:"true"`
}

// DefaultRetentionConfig returns the default history retention configuration
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		RetentionDays: 90,
		MaxRecords:    1000,
		BatchSize:     500,
		Enabled:       true,
	}
}

// Validate checks if the configuration has valid values
func (c RetentionConfig) Validate() error {
	if c.RetentionDays < 0 || c.RetentionDays > 3650 {
		return fmt.Errorf("retention_days must be between 0 and 3650 (got %d)", c.RetentionDays)
	}

	// 0 = unlimited, or 10-1000000
	if c.MaxRecords < 0 {
		return fmt.Errorf("max_records cannot be negative (got %d)", c.MaxRecords)
	}
	if c.MaxRecords > 0 && c.MaxRecords < 10 {
		return fmt.Errorf("max_records must be 0 (unlimited) or >= 10 (got %d)", c.MaxRecords)
	}
	if c.MaxRecords > 1000000 {
		return fmt.Errorf("max_records too large (got %d, max 1000000)", c.MaxRecords)
	}

	if c.BatchSize < 1 || c.BatchSize > 10000 {
		return fmt.Errorf("batch_size must be between 1 and 10000 (got %d)", c.BatchSize)
	}
	return nil
}

// Cutoff returns the creation time before which records expire, or the zero
// time when age-based retention is off.
func (c RetentionConfig) Cutoff(now time.Time) time.Time {
	if c.RetentionDays == 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -c.RetentionDays)
}

// String returns a human-readable representation of the config
func (c RetentionConfig) String() string {
	return fmt.Sprintf("RetentionConfig{RetentionDays: %d, MaxRecords: %d, BatchSize: %d, Enabled: %t}",
		c.RetentionDays, c.MaxRecords, c.BatchSize, c.Enabled)
}

// RetentionConfigFromEnv creates a RetentionConfig from CUBIC_HISTORY_*
// environment variables, falling back to defaults.
func RetentionConfigFromEnv() (RetentionConfig, error) {
	var cfg RetentionConfig
	if err := env.Parse(&cfg); err != nil {
		return DefaultRetentionConfig(), fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid history retention configuration from environment: %w", err)
	}
	return cfg, nil
}
