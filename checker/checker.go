// Package checker compares a candidate implementation of a narrow
// floating-point operator against the correctly rounded oracle result.
package checker

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/shogo82148/ulpcheck/format"
	"github.com/shogo82148/ulpcheck/narrow"
	"github.com/shogo82148/ulpcheck/oracle"
	"github.com/shogo82148/ulpcheck/rounding"
	"github.com/shogo82148/ulpcheck/ulp"
)

// Match is the outcome of checking one input.
type Match[T format.Value] struct {
	Input     T
	Expected  T // correctly rounded result
	Actual    T // candidate result
	ULPError  float64
	Tolerance float64
	OK        bool
}

// Stats counts the inputs a Checker has seen.
type Stats struct {
	Checked         int
	Exact           int
	WithinTolerance int
	Mismatches      int
	WorstULPError   float64
	WorstInput      uint64
}

// Checker checks a candidate operator of type T under one rounding mode.
//
// The rounding mode is entered when the Checker is created and held until
// Close, so a Checker must be used and closed on the goroutine that created it.
type Checker[T format.Value] struct {
	format    format.Format
	op        oracle.UnaryOp
	candidate func(T) T
	mode      rounding.Mode
	tolerance float64
	logger    *zap.Logger
	lib       *oracle.Library
	scope     *rounding.Scope

	// scratch values, reused for every input
	x, want, err *oracle.Value
	engine       ulp.Engine
	conv         narrow.Converter

	stats Stats
}

// New returns a Checker of candidate against the oracle operator op under mode.
// It sets the rounding mode of env; if env refuses the mode,
// the error wraps rounding.ErrModeRefused and the combination should be skipped.
func New[T format.Value](env rounding.Environment, op oracle.UnaryOp, candidate func(T) T, mode rounding.Mode, opts ...Option) (*Checker[T], error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.lib == nil {
		cfg.lib = oracle.Default()
	}

	f := format.Of[T]()
	prec := f.WorkingPrecision()
	if prec <= uint(f.Precision()) {
		return nil, fmt.Errorf("checker: working precision %d does not exceed the %s precision %d", prec, f, f.Precision())
	}
	if !cfg.lib.Supports(prec) {
		return nil, fmt.Errorf("checker: the oracle library does not support precision %d for %s", prec, f)
	}

	// scratch values are taken before the rounding mode is entered,
	// so a failure here leaves the environment untouched
	scratch := make([]*oracle.Value, 0, 3)
	for _, m := range []rounding.Mode{rounding.NearestEven, mode, rounding.NearestEven} {
		v, err := cfg.lib.GetPrec(prec, m)
		if err != nil {
			for _, v := range scratch {
				cfg.lib.Put(v)
			}
			return nil, fmt.Errorf("checker: %s: %w", f, err)
		}
		scratch = append(scratch, v)
	}
	x, want, errv := scratch[0], scratch[1], scratch[2]

	scope, err := rounding.Enter(env, mode)
	if err != nil {
		cfg.lib.Put(x)
		cfg.lib.Put(want)
		cfg.lib.Put(errv)
		return nil, fmt.Errorf("checker: %s: %w", f, err)
	}

	return &Checker[T]{
		format:    f,
		op:        op,
		candidate: candidate,
		mode:      mode,
		tolerance: cfg.tolerance,
		logger:    cfg.logger.With(zap.Stringer("format", f), zap.Stringer("mode", mode)),
		lib:       cfg.lib,
		scope:     scope,
		x:         x,
		want:      want,
		err:       errv,
	}, nil
}

// Close restores the rounding mode and releases the scratch values.
func (c *Checker[T]) Close() {
	if c.scope == nil {
		return
	}
	c.scope.Exit()
	c.scope = nil

	c.lib.Put(c.x)
	c.lib.Put(c.want)
	c.lib.Put(c.err)
	c.x, c.want, c.err = nil, nil, nil

	c.logger.Debug("checker closed",
		zap.Int("checked", c.stats.Checked),
		zap.Int("exact", c.stats.Exact),
		zap.Int("within_tolerance", c.stats.WithinTolerance),
		zap.Int("mismatches", c.stats.Mismatches),
		zap.Float64("worst_ulp_error", c.stats.WorstULPError),
		zap.String("worst_input", c.format.Hex(c.stats.WorstInput)),
	)
}

// Format returns the format being checked.
func (c *Checker[T]) Format() format.Format { return c.format }

// Mode returns the rounding mode being checked.
func (c *Checker[T]) Mode() rounding.Mode { return c.mode }

// Stats returns the counts accumulated so far.
func (c *Checker[T]) Stats() Stats { return c.stats }

// Check evaluates the oracle and the candidate at x with the default tolerance.
func (c *Checker[T]) Check(x T) Match[T] {
	return c.check(x, c.tolerance)
}

func (c *Checker[T]) check(x T, tolerance float64) Match[T] {
	if c.scope == nil {
		panic("checker: use of a closed Checker")
	}

	oracle.Assign(c.x, x)
	c.op(c.want, c.x)
	want := narrow.Convert[T](&c.conv, c.want, c.mode)
	got := c.candidate(x)

	m := Match[T]{
		Input:     x,
		Expected:  want,
		Actual:    got,
		Tolerance: tolerance,
	}
	exact := format.Bits(want) == format.Bits(got)
	if !exact {
		c.engine.Measure(c.err, c.want, c.format, format.Bits(got), c.mode)
		m.ULPError = ulp.Float64(c.err)
	}
	m.OK = exact || m.ULPError <= tolerance

	c.stats.Checked++
	switch {
	case exact:
		c.stats.Exact++
	case m.OK:
		c.stats.WithinTolerance++
	default:
		c.stats.Mismatches++
	}
	if m.ULPError > c.stats.WorstULPError {
		c.stats.WorstULPError = m.ULPError
		c.stats.WorstInput = format.Bits(x)
	}
	return m
}

func (c *Checker[T]) errorOf(m Match[T]) error {
	if m.OK {
		return nil
	}
	err := &MismatchError{
		Format:    c.format,
		Mode:      c.mode,
		Input:     format.Bits(m.Input),
		Expected:  format.Bits(m.Expected),
		Actual:    format.Bits(m.Actual),
		ULPError:  m.ULPError,
		Tolerance: m.Tolerance,
	}
	c.logger.Debug("mismatch",
		zap.String("input", c.format.Hex(err.Input)),
		zap.String("expected", c.format.Hex(err.Expected)),
		zap.String("actual", c.format.Hex(err.Actual)),
		zap.Float64("ulp_error", err.ULPError),
	)
	return err
}

func (c *Checker[T]) assertOptions(opts []AssertOption) assertConfig {
	cfg := assertConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.hasTolerance {
		cfg.tolerance = c.tolerance
	}
	return cfg
}

// AssertMatch checks a single input.
// It returns a *MismatchError if the candidate result is wrong.
func (c *Checker[T]) AssertMatch(x T, opts ...AssertOption) error {
	cfg := c.assertOptions(opts)
	return c.errorOf(c.check(x, cfg.tolerance))
}

// AssertSpecialValues checks +0, -0, +Inf, -Inf and NaN.
func (c *Checker[T]) AssertSpecialValues(opts ...AssertOption) error {
	f := c.format
	specials := []uint64{
		f.Zero(false),
		f.Zero(true),
		f.Inf(false),
		f.Inf(true),
		f.NaN(),
	}
	cfg := c.assertOptions(opts)
	for _, b := range specials {
		if err := c.errorOf(c.check(format.FromBits[T](b), cfg.tolerance)); err != nil {
			return err
		}
	}
	return nil
}

// AssertRange checks count inputs spaced evenly from start to stop,
// see Samples. It stops at the first mismatch.
func (c *Checker[T]) AssertRange(start, stop T, count int, opts ...AssertOption) error {
	cfg := c.assertOptions(opts)
	for b := range Samples(c.format, format.Bits(start), format.Bits(stop), count, cfg.exclusive) {
		if err := c.errorOf(c.check(format.FromBits[T](b), cfg.tolerance)); err != nil {
			return err
		}
	}
	return nil
}

// CollectRange is like AssertRange but checks every sample and
// returns all mismatches combined.
func (c *Checker[T]) CollectRange(start, stop T, count int, opts ...AssertOption) error {
	cfg := c.assertOptions(opts)
	var errs error
	for b := range Samples(c.format, format.Bits(start), format.Bits(stop), count, cfg.exclusive) {
		errs = multierr.Append(errs, c.errorOf(c.check(format.FromBits[T](b), cfg.tolerance)))
	}
	return errs
}

func (c *Checker[T]) assertClass(start, stop uint64, count int, opts []AssertOption) error {
	if count <= 0 {
		count = DefaultSamples
	}
	// a class smaller than count is checked exhaustively
	a, b := order(c.format, start), order(c.format, stop)
	if a > b {
		a, b = b, a
	}
	if n := b - a; uint64(count) > n {
		count = int(n) + 1
	}
	return c.AssertRange(format.FromBits[T](start), format.FromBits[T](stop), count, opts...)
}

// AssertPositiveNormals checks count inputs across the positive normal range.
// A count <= 0 means DefaultSamples.
func (c *Checker[T]) AssertPositiveNormals(count int, opts ...AssertOption) error {
	return c.assertClass(c.format.MinNormal(false), c.format.MaxFinite(false), count, opts)
}

// AssertNegativeNormals checks count inputs across the negative normal range.
func (c *Checker[T]) AssertNegativeNormals(count int, opts ...AssertOption) error {
	return c.assertClass(c.format.MinNormal(true), c.format.MaxFinite(true), count, opts)
}

// AssertPositiveSubnormals checks count inputs across the positive subnormal range.
func (c *Checker[T]) AssertPositiveSubnormals(count int, opts ...AssertOption) error {
	return c.assertClass(c.format.SmallestSubnormal(false), c.format.MaxSubnormal(false), count, opts)
}

// AssertNegativeSubnormals checks count inputs across the negative subnormal range.
func (c *Checker[T]) AssertNegativeSubnormals(count int, opts ...AssertOption) error {
	return c.assertClass(c.format.SmallestSubnormal(true), c.format.MaxSubnormal(true), count, opts)
}
