package checker

import (
	"go.uber.org/zap"

	"github.com/shogo82148/ulpcheck/oracle"
)

type config struct {
	tolerance float64
	logger    *zap.Logger
	lib       *oracle.Library
}

// Option configures a Checker.
type Option func(*config)

// WithTolerance sets the default ulp error a mismatch may have and still pass.
// The default is 0: only correctly rounded results pass.
func WithTolerance(ulps float64) Option {
	return func(c *config) {
		c.tolerance = ulps
	}
}

// WithLogger sets the logger mismatches and statistics are written to.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLibrary sets the oracle library scratch values come from.
// The default is oracle.Default().
func WithLibrary(lib *oracle.Library) Option {
	return func(c *config) {
		c.lib = lib
	}
}

type assertConfig struct {
	tolerance    float64
	hasTolerance bool
	exclusive    bool
}

// AssertOption adjusts a single assertion.
type AssertOption func(*assertConfig)

// Tolerance overrides the checker's tolerance for one assertion.
func Tolerance(ulps float64) AssertOption {
	return func(c *assertConfig) {
		c.tolerance = ulps
		c.hasTolerance = true
	}
}

// Exclusive leaves the stop value out of a range assertion.
func Exclusive() AssertOption {
	return func(c *assertConfig) {
		c.exclusive = true
	}
}
