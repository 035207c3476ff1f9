// Package ulp measures the distance between a correctly rounded oracle value
// and a narrow result in units in the last place.
//
// The unit is Goldberg's extended ulp: for 2^(e-1) <= |x| < 2^e the ulp is
// 2^(e-p), with the exponent clamped below so that the subnormal range has
// the fixed ulp of the smallest subnormal.
package ulp

import (
	"math"
	"sync"

	"github.com/shogo82148/ulpcheck/format"
	"github.com/shogo82148/ulpcheck/narrow"
	"github.com/shogo82148/ulpcheck/oracle"
	"github.com/shogo82148/ulpcheck/rounding"
)

// Exponent returns the base-2 exponent of one ulp of f at the magnitude of x.
// Zeros, infinities and NaN get the ulp of the smallest subnormal.
func Exponent(f format.Format, x *oracle.Value) int {
	u := f.MinSubnormalExp()
	if x.IsRegular() {
		if e := x.Exponent() - f.Precision(); e > u {
			u = e
		}
	}
	return u
}

// Engine measures ulp errors. It keeps scratch values between calls,
// so it must not be used concurrently.
// The zero Engine is ready to use.
type Engine struct {
	conv narrow.Converter
	gap  *oracle.Value
}

// Measure stores in out the error of the encoding actual in format f
// against expected, when actual was computed under mode.
//
//   - actual NaN: 0 if expected is NaN, +Inf otherwise.
//   - actual ±Inf: 0 if expected correctly rounds to the same infinity
//     under mode, +Inf otherwise.
//   - expected NaN: +Inf.
//   - otherwise |expected - actual| / ulp(expected).
//
// When expected rounds to an infinity under mode but actual is finite,
// the infinity is taken to sit one step above the largest finite value,
// and a directed mode adds one more ulp.
//
// out may be expected; expected is not modified otherwise.
func (e *Engine) Measure(out, expected *oracle.Value, f format.Format, actual uint64, mode rounding.Mode) {
	a := f.ToFloat64(actual)
	switch {
	case math.IsNaN(a):
		if expected.IsNaN() {
			out.SetZero(1)
		} else {
			out.SetInf(1)
		}
		return
	case math.IsInf(a, 0):
		if !expected.IsNaN() && e.conv.Narrow(f, expected, mode) == actual {
			out.SetZero(1)
		} else {
			out.SetInf(1)
		}
		return
	case expected.IsNaN():
		out.SetInf(1)
		return
	}

	// read everything needed from expected before out is written
	u := Exponent(f, expected)
	overflow := expected.IsFinite() && f.Classify(e.conv.Narrow(f, expected, mode)) == format.ClassInf

	saved := out.Mode()
	defer out.SetMode(saved)

	out.SetMode(rounding.AwayFromZero)
	out.SubFloat64(expected, a)
	out.Abs(out)
	if overflow {
		// 2^(emax+1) - MAX_FINITE
		if e.gap == nil || e.gap.Prec() != out.Prec() {
			e.gap = oracle.NewPrec(out.Prec(), rounding.NearestEven)
		}
		e.gap.SetFloat64(1)
		e.gap.MulPow2(e.gap, f.Emax()+1-f.Precision())
		out.Add(out, e.gap)
	}

	out.SetMode(rounding.NearestEven)
	out.MulPow2(out, -u)
	if overflow && mode.Directed() {
		out.SubFloat64(out, -1)
	}
}

// Float64 returns the error stored in out. Errors too large for a float64
// saturate to +Inf.
func Float64(out *oracle.Value) float64 {
	v, _ := out.Float64()
	return v
}

var engines = sync.Pool{
	New: func() any { return new(Engine) },
}

// Error stores in out the ulp error of actual against expected under mode.
// It is Measure with the format taken from T.
func Error[T format.Value](out, expected *oracle.Value, actual T, mode rounding.Mode) {
	e := engines.Get().(*Engine)
	defer engines.Put(e)
	e.Measure(out, expected, format.Of[T](), format.Bits(actual), mode)
}
