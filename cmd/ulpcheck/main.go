// Command ulpcheck checks the square root implementations of this module
// against the correctly rounded result in every supported rounding mode.
package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/shogo82148/ulpcheck/bfloat16"
	"github.com/shogo82148/ulpcheck/checker"
	"github.com/shogo82148/ulpcheck/float16"
	"github.com/shogo82148/ulpcheck/format"
	"github.com/shogo82148/ulpcheck/internal/options"
	"github.com/shogo82148/ulpcheck/oracle"
	"github.com/shogo82148/ulpcheck/rounding"
)

func main() {
	opts := options.New().MustParse()
	level := lo.Must(opts.Level())
	logger := lo.Must(zapConfig(level).Build())
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	if err := run(opts, logger); err != nil {
		errs := multierr.Errors(err)
		for _, err := range errs {
			logger.Error("check failed", zap.Error(err))
		}
		logger.Error("ulpcheck failed", zap.Int("failures", len(errs)))
		logger.Sync() //nolint:errcheck
		os.Exit(1)
	}
	logger.Info("all checks passed")
}

func environment(name string) (rounding.Environment, error) {
	switch name {
	case options.SoftwareEnvironment:
		return rounding.Default(), nil
	case options.HardwareEnvironment:
		return rounding.Hardware()
	}
	return nil, fmt.Errorf("unknown environment %q", name)
}

// run checks every selected format in every available rounding mode
// and returns the combined failures.
func run(opts *options.Options, logger *zap.Logger) error {
	env, err := environment(opts.Environment)
	if err != nil {
		return err
	}
	formats, err := opts.ParsedFormats()
	if err != nil {
		return err
	}
	modes := rounding.AvailableModes(opts.AllRoundingModes)

	logger.Info("starting",
		zap.String("target", rounding.Target()),
		zap.String("environment", opts.Environment),
		zap.Stringers("formats", formats),
		zap.Stringers("modes", modes),
		zap.Int("samples", opts.Samples),
		zap.Float64("tolerance", opts.Tolerance),
	)

	var errs error
	for _, f := range formats {
		for _, mode := range modes {
			errs = multierr.Append(errs, checkFormat(env, f, mode, opts, logger))
		}
	}
	return errs
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func checkFormat(env rounding.Environment, f format.Format, mode rounding.Mode, opts *options.Options, logger *zap.Logger) error {
	switch f {
	case format.Float16:
		return check(env, float16.Float16.Sqrt, mode, opts, logger)
	case format.BFloat16:
		return check(env, bfloat16.BFloat16.Sqrt, mode, opts, logger)
	case format.Float32:
		return check(env, sqrt32, mode, opts, logger)
	case format.Float64:
		return check(env, math.Sqrt, mode, opts, logger)
	}
	return fmt.Errorf("unsupported format %s", f)
}

func check[T format.Value](env rounding.Environment, sqrt func(T) T, mode rounding.Mode, opts *options.Options, logger *zap.Logger) error {
	f := format.Of[T]()
	log := logger.With(zap.Stringer("format", f), zap.Stringer("mode", mode))

	c, err := checker.New(env, oracle.Sqrt, sqrt, mode,
		checker.WithTolerance(opts.Tolerance),
		checker.WithLogger(logger),
	)
	if errors.Is(err, rounding.ErrModeRefused) {
		log.Info("skipped: rounding mode not supported by the environment")
		return nil
	}
	if err != nil {
		return err
	}
	defer c.Close()

	// the candidate computes with the arithmetic of the machine, which
	// must actually be rounding in the mode under test
	if detected := rounding.QuickDetect(f); detected != mode {
		log.Info("skipped: arithmetic does not follow the rounding mode", zap.Stringer("detected", detected))
		return nil
	}

	err = multierr.Combine(
		c.AssertSpecialValues(),
		c.AssertPositiveNormals(opts.Samples),
		c.AssertNegativeNormals(opts.Samples),
		c.AssertPositiveSubnormals(opts.Samples),
		c.AssertNegativeSubnormals(opts.Samples),
	)
	stats := c.Stats()
	log.Info("checked",
		zap.Int("checked", stats.Checked),
		zap.Int("exact", stats.Exact),
		zap.Int("mismatches", stats.Mismatches),
		zap.Float64("worst_ulp_error", stats.WorstULPError),
		zap.String("worst_input", f.Hex(stats.WorstInput)),
	)
	return err
}
