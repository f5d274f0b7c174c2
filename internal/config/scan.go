package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ScanConfig holds the tunables of the root scanner
type ScanConfig struct {
	// NegativeLo and NegativeHi bound the negative-root scan
	// Default: [-100000, 0]
	NegativeLo float64 `yaml:"negative_lo" env:"CUBIC_NEGATIVE_LO"`
	NegativeHi float64 `yaml:"negative_hi" env:"CUBIC_NEGATIVE_HI"`

	// FullLo and FullHi bound the all-root scan
	// Default: [-10000, 10000]
	FullLo float64 `yaml:"full_lo" env:"CUBIC_FULL_LO"`
	FullHi float64 `yaml:"full_hi" env:"CUBIC_FULL_HI"`

	// Step is the distance between consecutive samples
	// The last sub-interval of a range may be shorter
	// Default: 0.1
	Step float64 `yaml:"step" env:"CUBIC_STEP"`

	// Tolerance is the largest |f(x)| accepted as a root by the chord refiner
	// Default: 1e-4
	Tolerance float64 `yaml:"tolerance" env:"CUBIC_TOLERANCE"`

	// MaxIterations caps chord refinement of one bracket
	// Hitting the cap is not an error, the last estimate is used
	// Default: 10000
	MaxIterations int `yaml:"max_iterations" env:"CUBIC_MAX_ITERATIONS"`

	// FlatSlope is the |f(end) - f(start)| below which the refiner
	// bisects instead of dividing by the slope
	// Default: 1e-12
	FlatSlope float64 `yaml:"flat_slope" env:"CUBIC_FLAT_SLOPE"`

	// DedupThreshold is the minimum separation between two reported roots
	// Default: 0.001
	DedupThreshold float64 `yaml:"dedup_threshold" env:"CUBIC_DEDUP_THRESHOLD"`
}

// maxSamples bounds (hi-lo)/step for a single range
const maxSamples = 1e8

// DefaultScanConfig returns the canonical scan configuration
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		NegativeLo:     -100000,
		NegativeHi:     0,
		FullLo:         -10000,
		FullHi:         10000,
		Step:           0.1,
		Tolerance:      1e-4,
		MaxIterations:  10000,
		FlatSlope:      1e-12,
		DedupThreshold: 0.001,
	}
}

// Validate checks if the configuration has valid values
func (c ScanConfig) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"negative_lo", c.NegativeLo}, {"negative_hi", c.NegativeHi},
		{"full_lo", c.FullLo}, {"full_hi", c.FullHi},
		{"step", c.Step}, {"tolerance", c.Tolerance},
		{"flat_slope", c.FlatSlope}, {"dedup_threshold", c.DedupThreshold},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be finite (got %v)", f.name, f.value)
		}
	}

	if c.NegativeLo >= c.NegativeHi {
		return fmt.Errorf("negative_lo (%g) must be < negative_hi (%g)", c.NegativeLo, c.NegativeHi)
	}
	if c.FullLo >= c.FullHi {
		return fmt.Errorf("full_lo (%g) must be < full_hi (%g)", c.FullLo, c.FullHi)
	}
	if c.Step <= 0 {
		return fmt.Errorf("step must be positive (got %g)", c.Step)
	}
	if stepVanishes(c.NegativeLo, c.NegativeHi, c.Step) {
		return fmt.Errorf("step %g is too small to advance across negative range [%g, %g]",
			c.Step, c.NegativeLo, c.NegativeHi)
	}
	if stepVanishes(c.FullLo, c.FullHi, c.Step) {
		return fmt.Errorf("step %g is too small to advance across full range [%g, %g]",
			c.Step, c.FullLo, c.FullHi)
	}
	if (c.NegativeHi-c.NegativeLo)/c.Step > maxSamples {
		return fmt.Errorf("negative range too fine (got %g samples, max %g)",
			(c.NegativeHi-c.NegativeLo)/c.Step, maxSamples)
	}
	if (c.FullHi-c.FullLo)/c.Step > maxSamples {
		return fmt.Errorf("full range too fine (got %g samples, max %g)",
			(c.FullHi-c.FullLo)/c.Step, maxSamples)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive (got %g)", c.Tolerance)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be at least 1 (got %d)", c.MaxIterations)
	}
	if c.MaxIterations > 10000000 {
		return fmt.Errorf("max_iterations too large (got %d, max 10000000)", c.MaxIterations)
	}
	if c.FlatSlope < 0 {
		return fmt.Errorf("flat_slope cannot be negative (got %g)", c.FlatSlope)
	}
	if c.DedupThreshold < 0 {
		return fmt.Errorf("dedup_threshold cannot be negative (got %g)", c.DedupThreshold)
	}
	return nil
}

// stepVanishes reports whether adding step is lost to rounding somewhere in
// [lo, hi]. Float spacing grows with magnitude, so the endpoints decide.
func stepVanishes(lo, hi, step float64) bool {
	return lo+step == lo || hi-step == hi
}

// String returns a human-readable representation of the config
func (c ScanConfig) String() string {
	return fmt.Sprintf(
		"ScanConfig{Negative: [%g, %g], Full: [%g, %g], Step: %g, "+
			"Tolerance: %g, MaxIterations: %d, FlatSlope: %g, Dedup: %g}",
		c.NegativeLo, c.NegativeHi, c.FullLo, c.FullHi, c.Step,
		c.Tolerance, c.MaxIterations, c.FlatSlope, c.DedupThreshold,
	)
}

// ConfigPath returns the location of the scan config file for a project root
func ConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, StateDir, "config.yaml")
}

// LoadConfigFile loads scan configuration from .cubic/config.yaml.
// Keys missing from the file keep their default values.
func LoadConfigFile(projectRoot string) (ScanConfig, error) {
	cfg := DefaultScanConfig()

	data, err := os.ReadFile(ConfigPath(projectRoot))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file: %w", err)
	}
	return cfg, nil
}

// WriteConfigFile writes cfg to .cubic/config.yaml under projectRoot.
// An existing file is only replaced when overwrite is set.
func WriteConfigFile(projectRoot string, cfg ScanConfig, overwrite bool) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	path := ConfigPath(projectRoot)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("config file already exists: %s", path)
		}
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// ConfigFromEnv overlays CUBIC_* environment variables on base.
//
// Environment variables:
//   - CUBIC_NEGATIVE_LO, CUBIC_NEGATIVE_HI: negative scan bounds
//   - CUBIC_FULL_LO, CUBIC_FULL_HI: full scan bounds
//   - CUBIC_STEP: sample step
//   - CUBIC_TOLERANCE: refiner tolerance on |f(x)|
//   - CUBIC_MAX_ITERATIONS: refiner iteration cap
//   - CUBIC_FLAT_SLOPE: bisection fallback threshold
//   - CUBIC_DEDUP_THRESHOLD: minimum root separation
//
// Unset variables leave base untouched.
func ConfigFromEnv(base ScanConfig) (ScanConfig, error) {
	cfg := base
	if err := env.Parse(&cfg); err != nil {
		return base, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return base, fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return cfg, nil
}

// Load resolves the scan configuration for a project: defaults, then the
// config file, then the environment.
func Load(projectRoot string) (ScanConfig, error) {
	cfg, err := LoadConfigFile(projectRoot)
	if err != nil {
		return cfg, err
	}
	return ConfigFromEnv(cfg)
}
