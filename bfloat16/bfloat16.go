// Package bfloat16 implements the bfloat16 (brain floating point) format.
//
// A bfloat16 value is the upper half of a float32: 1 sign bit,
// 8 exponent bits and 7 stored mantissa bits.
package bfloat16

import (
	"math"
	"strconv"
)

// BFloat16 is a bfloat16 value stored in its bit representation.
type BFloat16 uint16

const (
	uvnan    = 0x7fc0
	uvinf    = 0x7f80
	uvneginf = 0xff80

	signMask = 0x8000
	fracMask = 0x007f
	expMask  = 0xff
	shift    = 7
	bias     = 127
)

// FromBits returns the bfloat16 value with the binary representation b.
func FromBits(b uint16) BFloat16 {
	return BFloat16(b)
}

// Bits returns the binary representation of x.
func (x BFloat16) Bits() uint16 {
	return uint16(x)
}

// NaN returns a quiet “not-a-number” value.
func NaN() BFloat16 {
	return uvnan
}

// Inf returns positive infinity if sign >= 0, negative infinity if sign < 0.
func Inf(sign int) BFloat16 {
	if sign >= 0 {
		return uvinf
	}
	return uvneginf
}

// IsNaN reports whether x is a “not-a-number” value.
func (x BFloat16) IsNaN() bool {
	return x&^signMask > uvinf
}

// IsInf reports whether x is an infinity, according to sign.
func (x BFloat16) IsInf(sign int) bool {
	return sign >= 0 && x == uvinf || sign <= 0 && x == uvneginf
}

// Signbit reports whether x is negative or negative zero.
func (x BFloat16) Signbit() bool {
	return x&signMask != 0
}

// Float32 returns the float32 representation of x. The conversion is exact.
func (x BFloat16) Float32() float32 {
	return math.Float32frombits(uint32(x) << 16)
}

// Float64 returns the float64 representation of x. The conversion is exact.
func (x BFloat16) Float64() float64 {
	return float64(x.Float32())
}

// FromFloat32 returns the bfloat16 value nearest to f, rounding ties to even.
// NaNs are quieted and keep their sign.
func FromFloat32(f float32) BFloat16 {
	b := math.Float32bits(f)
	if b&0x7fffffff > 0x7f800000 {
		return BFloat16(b>>16) | uvnan
	}
	// the rounding position is bit 15; add 0x7fff plus the lowest kept bit
	b += 0x7fff + (b>>16)&1
	return BFloat16(b >> 16)
}

// FromFloat64 returns the bfloat16 value nearest to f, rounding ties to even.
//
// The value is rounded once, directly from float64.
// Going through float32 would round twice.
func FromFloat64(f float64) BFloat16 {
	b := math.Float64bits(f)
	sign := BFloat16(b>>48) & signMask
	exp := int(b>>52) & 0x7ff
	frac := b & (1<<52 - 1)

	switch exp {
	case 0x7ff:
		if frac != 0 {
			return sign | uvnan
		}
		return sign | uvinf
	case 0:
		// zero or float64 subnormal; far below the smallest bfloat16 subnormal
		return sign
	}

	exp -= 1023
	if exp > bias {
		// overflow
		return sign | uvinf
	}
	frac |= 1 << 52

	n := 52 - shift
	if exp < 1-bias {
		// the result is subnormal
		n += 1 - bias - exp
	}
	if n >= 64 {
		// underflow
		return sign
	}
	q := frac >> n
	rem := frac & (1<<n - 1)
	half := uint64(1) << (n - 1)
	if rem > half || rem == half && q&1 != 0 {
		q++ // round to nearest even
	}

	if exp < 1-bias {
		return sign | BFloat16(q)
	}
	if q == 1<<(shift+1) {
		q >>= 1
		exp++
		if exp > bias {
			return sign | uvinf
		}
	}
	return sign | BFloat16(exp+bias)<<shift | BFloat16(q&fracMask)
}

// String returns the shortest decimal representation of x.
func (x BFloat16) String() string {
	switch {
	case x.IsNaN():
		return "NaN"
	case x == uvinf:
		return "+Inf"
	case x == uvneginf:
		return "-Inf"
	}
	return strconv.FormatFloat(x.Float64(), 'g', -1, 32)
}
