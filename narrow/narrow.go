// Package narrow converts oracle values to narrow floating-point formats
// with a single rounding under any rounding mode.
//
// Narrowing a wide value to float32 first and then to a 16-bit format rounds
// twice and can be off by one ulp. The conversions here round once, directly
// to the significand width the target format has at the value's magnitude.
package narrow

import (
	"sync"

	"github.com/shogo82148/ulpcheck/bfloat16"
	"github.com/shogo82148/ulpcheck/float16"
	"github.com/shogo82148/ulpcheck/format"
	"github.com/shogo82148/ulpcheck/oracle"
	"github.com/shogo82148/ulpcheck/rounding"
)

// Converter narrows oracle values. It keeps a scratch value between calls,
// so it must not be used concurrently.
// The zero Converter is ready to use.
type Converter struct {
	scratch *oracle.Value
}

// Narrow returns the encoding in format f of x correctly rounded under mode.
// x is not modified.
func (c *Converter) Narrow(f format.Format, x *oracle.Value, mode rounding.Mode) uint64 {
	if !mode.Valid() {
		panic("narrow: invalid rounding mode " + mode.String())
	}

	// singular values need no rounding
	switch {
	case x.IsNaN():
		return f.NaN()
	case x.IsInf():
		return f.Inf(x.Signbit())
	case x.IsZero():
		return f.Zero(x.Signbit())
	}

	neg := x.Signbit()
	if mode == rounding.AwayFromZero {
		if neg {
			mode = rounding.Downward
		} else {
			mode = rounding.Upward
		}
	}

	// 2^(e-1) <= |x| < 2^e
	e := x.Exponent()
	s := f.MinSubnormalExp()

	if e <= s {
		// |x| is below the smallest subnormal 2^s.
		// The result is ±0 or ±2^s; the midpoint is 2^(s-1).
		var cmp int
		if neg {
			cmp = -x.CmpScaled(-1, s-1)
		} else {
			cmp = x.CmpScaled(1, s-1)
		}
		var away bool
		switch mode {
		case rounding.NearestEven:
			away = cmp > 0
		case rounding.NearestAway:
			away = cmp >= 0
		case rounding.Upward:
			away = !neg
		case rounding.Downward:
			away = neg
		}
		if away {
			return f.SmallestSubnormal(neg)
		}
		return f.Zero(neg)
	}

	if e > f.Emax()+1 {
		// |x| >= 2^(emax+1), beyond the largest finite value.
		switch {
		case mode == rounding.TowardZero,
			mode == rounding.Upward && neg,
			mode == rounding.Downward && !neg:
			return f.MaxFinite(neg)
		}
		return f.Inf(neg)
	}

	width := f.Precision()
	if e-1 < f.Emin() {
		// subnormal: the ulp is fixed at 2^s
		width = e - s
	}

	if c.scratch == nil || c.scratch.Prec() != x.Prec() {
		c.scratch = oracle.NewPrec(x.Prec(), rounding.NearestEven)
	}
	r := c.scratch
	r.Set(x)
	r.RoundToPrec(uint(width), mode)

	// r is now exactly representable in the target format, or it carried
	// to 2^(emax+1), which the extraction turns into an infinity.
	switch f {
	case format.Float16:
		v, _ := r.Float32()
		return uint64(float16.FromFloat32(v).Bits())
	case format.BFloat16:
		v, _ := r.Float32()
		return uint64(bfloat16.FromFloat32(v).Bits())
	case format.Float32:
		v, _ := r.Float32()
		return format.Bits(v)
	case format.Float64:
		v, _ := r.Float64()
		return format.Bits(v)
	}
	panic("narrow: invalid format " + f.String())
}

var converters = sync.Pool{
	New: func() any { return new(Converter) },
}

// Convert returns x correctly rounded to T under mode, using c's scratch space.
func Convert[T format.Value](c *Converter, x *oracle.Value, mode rounding.Mode) T {
	return format.FromBits[T](c.Narrow(format.Of[T](), x, mode))
}

// To returns x correctly rounded to T under mode.
func To[T format.Value](x *oracle.Value, mode rounding.Mode) T {
	c := converters.Get().(*Converter)
	defer converters.Put(c)
	return Convert[T](c, x, mode)
}

// ToFloat16 returns x correctly rounded to float16 under mode.
func ToFloat16(x *oracle.Value, mode rounding.Mode) float16.Float16 {
	return To[float16.Float16](x, mode)
}

// ToBFloat16 returns x correctly rounded to bfloat16 under mode.
func ToBFloat16(x *oracle.Value, mode rounding.Mode) bfloat16.BFloat16 {
	return To[bfloat16.BFloat16](x, mode)
}

// ToFloat32 returns x correctly rounded to float32 under mode.
func ToFloat32(x *oracle.Value, mode rounding.Mode) float32 {
	return To[float32](x, mode)
}

// ToFloat64 returns x correctly rounded to float64 under mode.
func ToFloat64(x *oracle.Value, mode rounding.Mode) float64 {
	return To[float64](x, mode)
}
