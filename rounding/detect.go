package rounding

import (
	"fmt"

	"github.com/shogo82148/ulpcheck/bfloat16"
	"github.com/shogo82148/ulpcheck/float16"
	"github.com/shogo82148/ulpcheck/format"
)

// QuickDetect infers the rounding mode that additions in format f
// currently use.
//
// Each format is probed with its own arithmetic: the native float32 and
// float64 operations follow the floating-point environment of the thread,
// while the software float16 and bfloat16 additions always round to nearest even.
// QuickDetect panics if the results match no known rounding mode.
func QuickDetect(f format.Format) Mode {
	switch f {
	case format.Float16:
		return detect(float16.Float16.Add, float16.FromFloat64, float16.Float16.Float64, f)
	case format.BFloat16:
		return detect(bfloat16.BFloat16.Add, bfloat16.FromFloat64, bfloat16.BFloat16.Float64, f)
	case format.Float32:
		return detect(addFloat32, func(d float64) float32 { return float32(d) }, func(x float32) float64 { return float64(x) }, f)
	case format.Float64:
		return detect(addFloat64, func(d float64) float64 { return d }, func(x float64) float64 { return x }, f)
	}
	panic(fmt.Sprintf("rounding: invalid format %v", f))
}

// the probes go through function values so that the compiler cannot fold
// the additions at compile time under the default rounding mode.

//go:noinline
func addFloat32(a, b float32) float32 { return a + b }

//go:noinline
func addFloat64(a, b float64) float64 { return a + b }

// detect classifies the results of four additions.
// Every operand is exactly representable; only the sums round.
func detect[T any](add func(T, T) T, from func(float64) T, to func(T) float64, f format.Format) Mode {
	eps := 1 / float64(uint64(1)<<f.MantBits())
	one, negOne := from(1), from(-1)

	// 1 + eps/4 lies between 1 and 1+eps, below the midpoint.
	up := to(add(one, from(eps/4)))
	// -1 - eps/4 lies between -1 and -1-eps, below the midpoint in magnitude.
	down := to(add(negOne, from(-eps/4)))

	switch {
	case up > 1 && down < -1:
		return AwayFromZero
	case up > 1 && down == -1:
		return Upward
	case up == 1 && down < -1:
		return Downward
	case up != 1 || down != -1:
		panic(fmt.Sprintf("rounding: unknown %s signature: 1+eps/4=%v, -1-eps/4=%v", f, up, down))
	}

	// truncation or nearest; 1 + 3eps/4 tells them apart.
	if to(add(one, from(3*eps/4))) == 1 {
		return TowardZero
	}

	// ties: 1 + eps/2 is exactly halfway between 1 and 1+eps.
	tie := to(add(one, from(eps/2)))
	switch {
	case tie == 1:
		return NearestEven
	case tie == 1+eps:
		return NearestAway
	}
	panic(fmt.Sprintf("rounding: unknown %s signature: 1+eps/2=%v", f, tie))
}
