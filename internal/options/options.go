// Package options holds the configuration of the ulpcheck command.
package options

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/shogo82148/ulpcheck/format"
	"github.com/shogo82148/ulpcheck/internal/env"
)

// Environment names accepted by the environment flag.
const (
	SoftwareEnvironment = "software"
	HardwareEnvironment = "hardware"
)

// Options for running this binary
type Options struct {
	*flag.FlagSet

	AllRoundingModes bool
	Formats          string
	Samples          int
	Tolerance        float64
	Environment      string
	LogLevel         string
}

// New creates an Options struct and registers CLI flags and environment variables to fill-in the Options struct fields
func New() *Options {
	opts := &Options{}
	f := flag.NewFlagSet("ulpcheck", flag.ContinueOnError)
	opts.FlagSet = f

	f.BoolVar(&opts.AllRoundingModes, "all-rounding-modes", env.WithDefaultBool("ULPCHECK_ALL_ROUNDING_MODES", false), "Check all four IEEE rounding modes instead of only round to nearest")
	f.StringVar(&opts.Formats, "formats", env.WithDefaultString("ULPCHECK_FORMATS", "all"), "Comma separated list of formats to check, or all")
	f.IntVar(&opts.Samples, "samples", env.WithDefaultInt("ULPCHECK_SAMPLES", 1001), "Number of inputs checked per value class")
	f.Float64Var(&opts.Tolerance, "tolerance", env.WithDefaultFloat64("ULPCHECK_TOLERANCE", 0), "ULP error a result may have and still pass; 0 requires correct rounding")
	f.StringVar(&opts.Environment, "environment", env.WithDefaultString("ULPCHECK_ENVIRONMENT", SoftwareEnvironment), "Rounding environment, software or hardware")
	f.StringVar(&opts.LogLevel, "log-level", env.WithDefaultString("ULPCHECK_LOG_LEVEL", "info"), "Log verbosity: debug, info, warn or error")
	return opts
}

// MustParse reads the user passed flags, environment variables, and default values.
// Options are validated and panics if an error is returned
func (o *Options) MustParse() *Options {
	err := o.Parse(os.Args[1:])

	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		panic(err)
	}
	if err := o.Validate(); err != nil {
		panic(err)
	}
	return o
}

// Validate reports every invalid option.
func (o *Options) Validate() error {
	return multierr.Combine(
		o.validateFormats(),
		o.validateSamples(),
		o.validateTolerance(),
		o.validateEnvironment(),
		o.validateLogLevel(),
	)
}

func (o *Options) validateFormats() error {
	_, err := o.ParsedFormats()
	return err
}

func (o *Options) validateSamples() error {
	if o.Samples < 1 {
		return fmt.Errorf("samples must be positive, got %d", o.Samples)
	}
	return nil
}

func (o *Options) validateTolerance() error {
	if o.Tolerance < 0 || math.IsNaN(o.Tolerance) {
		return fmt.Errorf("tolerance must be a non-negative number, got %g", o.Tolerance)
	}
	return nil
}

func (o *Options) validateEnvironment() error {
	if o.Environment != SoftwareEnvironment && o.Environment != HardwareEnvironment {
		return fmt.Errorf("environment may only be either %s or %s, got %q", SoftwareEnvironment, HardwareEnvironment, o.Environment)
	}
	return nil
}

func (o *Options) validateLogLevel() error {
	_, err := o.Level()
	return err
}

// ParsedFormats returns the formats to check, in the order given and without duplicates.
func (o *Options) ParsedFormats() ([]format.Format, error) {
	if strings.TrimSpace(o.Formats) == "all" {
		return slices.Clone(format.All), nil
	}
	names := lo.Compact(lo.Map(strings.Split(o.Formats, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	if len(names) == 0 {
		return nil, fmt.Errorf("formats must name at least one format")
	}

	var errs error
	formats := make([]format.Format, 0, len(names))
	for _, name := range names {
		f, err := format.Parse(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		formats = append(formats, f)
	}
	if errs != nil {
		return nil, errs
	}
	return lo.Uniq(formats), nil
}

// Level returns the parsed log level.
func (o *Options) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(o.LogLevel)
	if err != nil {
		return level, fmt.Errorf("invalid log-level: %w", err)
	}
	return level, nil
}
