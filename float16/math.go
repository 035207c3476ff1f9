package float16

import (
	"math/bits"
)

// Add returns the IEEE 754 binary16 sum of a and b,
// rounded to nearest even.
//
// The rounding does not depend on the floating-point environment
// of the host; it is always to nearest even.
func (a Float16) Add(b Float16) Float16 {
	if a.IsNaN() || b.IsNaN() {
		// anything + NaN = NaN
		// NaN + anything = NaN
		return uvnan
	}
	if a&^signMask16 == 0 && b&^signMask16 == 0 {
		// ±0 + ±0; the sum is -0 only if both are -0
		return a & b
	}

	if a.IsInf(0) {
		if b == a^signMask16 {
			// ±inf + ∓inf = NaN
			return uvnan
		}
		return a // ±inf + anything = ±inf
	}
	if b.IsInf(0) {
		return b
	}

	return (a.fix24() + b.fix24()).Float16()
}

// fix24 is a fixed-point number with 24 fractional bits.
// Every finite Float16 is an integer multiple of 2^-24,
// so the conversion is exact.
type fix24 int64

func (x Float16) fix24() fix24 {
	var ret fix24
	exp := uint32(x>>shift16) & mask16
	frac := uint32(x & fracMask16)
	if exp == 0 {
		// subnormal number
		ret = fix24(frac)
	} else {
		// normal number
		ret = fix24(frac|(1<<shift16)) << (exp - 1)
	}
	if x&signMask16 != 0 {
		ret = -ret
	}
	return ret
}

func (f fix24) Float16() Float16 {
	if f == 0 {
		// exact cancellation is +0 in round to nearest
		return 0
	}

	var sign Float16
	if f < 0 {
		sign = signMask16
		f = -f
	}
	l := bits.Len64(uint64(f))
	if l <= shift16 {
		// subnormal number
		return sign | Float16(f)
	}
	shift := l - shift16 - 1
	if shift > 0 {
		f += (1<<(shift-1) - 1) + ((f >> shift) & 1) // round to nearest even
		l = bits.Len64(uint64(f))
	}

	exp := uint16(l) - shift16
	if exp >= mask16 {
		// overflow
		return sign | uvinf
	}
	frac := uint16(f>>(exp-1)) & fracMask16
	return sign | Float16(exp<<shift16) | Float16(frac)
}
