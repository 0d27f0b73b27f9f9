package kdtree

import (
	"fmt"
	"runtime"
)

// Config controls tree construction and the batch query helpers.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Dims is K, the number of coordinates per point. It is fixed for the
	// lifetime of a tree. Must be >= 1.
	Dims int

	// Workers controls the number of goroutines used by the batch query
	// helpers. 0 means use runtime.NumCPU(). Must be >= 0. Default: 0 (auto).
	Workers int

	// CheckInvariants runs Validate after every Build and fails the build if
	// the split invariant does not hold. Intended for tests. Default: false.
	CheckInvariants bool
}

// DefaultConfig returns a Config for dims-dimensional points.
func DefaultConfig(dims int) Config {
	return Config{Dims: dims}
}

// validateConfig rejects a Config that no tree can be built with.
func validateConfig(cfg *Config) error {
	if cfg.Dims < 1 {
		return fmt.Errorf("%w: Dims must be >= 1, got %d", ErrInvalidConfig, cfg.Dims)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: Workers must be >= 0 (0 means runtime.NumCPU()), got %d", ErrInvalidConfig, cfg.Workers)
	}
	return nil
}

// applyDefaults resolves Workers == 0 to the CPU count.
func applyDefaults(cfg *Config) {
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}
