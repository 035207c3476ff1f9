// Package float16 implements the IEEE 754 binary16 format in software.
package float16

import (
	"math"
	"math/bits"
	"strconv"
)

// Float16 is an IEEE 754 binary16 value stored in its bit representation.
type Float16 uint16

const (
	uvnan    = 0x7e00
	uvinf    = 0x7c00
	uvneginf = 0xfc00
	uvmax    = 0x7bff

	signMask16 = 0x8000
	fracMask16 = 0x03ff
	mask16     = 0x1f
	shift16    = 10
	bias16     = 15
)

// FromBits returns the floating point number corresponding
// the IEEE 754 binary representation b.
func FromBits(b uint16) Float16 {
	return Float16(b)
}

// Bits returns the IEEE 754 binary representation of x.
func (x Float16) Bits() uint16 {
	return uint16(x)
}

// NaN returns an IEEE 754 “not-a-number” value.
func NaN() Float16 {
	return uvnan
}

// Inf returns positive infinity if sign >= 0, negative infinity if sign < 0.
func Inf(sign int) Float16 {
	if sign >= 0 {
		return uvinf
	}
	return uvneginf
}

// IsNaN reports whether x is an IEEE 754 “not-a-number” value.
func (x Float16) IsNaN() bool {
	return x&^signMask16 > uvinf
}

// IsInf reports whether x is an infinity, according to sign.
// If sign > 0, IsInf reports whether x is positive infinity.
// If sign < 0, IsInf reports whether x is negative infinity.
// If sign == 0, IsInf reports whether x is either infinity.
func (x Float16) IsInf(sign int) bool {
	return sign >= 0 && x == uvinf || sign <= 0 && x == uvneginf
}

// Signbit reports whether x is negative or negative zero.
func (x Float16) Signbit() bool {
	return x&signMask16 != 0
}

// Float32 returns the float32 representation of x.
// The conversion is exact.
func (x Float16) Float32() float32 {
	return float32(x.Float64())
}

// Float64 returns the float64 representation of x.
// The conversion is exact.
func (x Float16) Float64() float64 {
	sign := uint64(x&signMask16) << 48
	exp := uint64(x>>shift16) & mask16
	frac := uint64(x & fracMask16)

	switch exp {
	case 0:
		if frac == 0 {
			return math.Float64frombits(sign)
		}
		// subnormal number
		l := uint64(bits.Len64(frac))
		frac = (frac << (shift16 - l + 1)) & fracMask16
		exp = 1023 - bias16 - shift16 + l
	case mask16:
		// infinity or NaN
		exp = 2047
	default:
		// normal number
		exp += 1023 - bias16
	}
	return math.Float64frombits(sign | (exp << 52) | (frac << (52 - shift16)))
}

// FromFloat32 returns the Float16 nearest to f, rounding ties to even.
func FromFloat32(f float32) Float16 {
	// float32 to float64 is exact, so no double rounding happens here.
	return FromFloat64(float64(f))
}

// FromFloat64 returns the Float16 nearest to f, rounding ties to even.
func FromFloat64(f float64) Float16 {
	b := math.Float64bits(f)
	sign := Float16(b>>48) & signMask16
	exp := int(b>>52) & 0x7ff
	frac := b & (1<<52 - 1)

	switch exp {
	case 0x7ff:
		if frac != 0 {
			return sign | uvnan
		}
		return sign | uvinf
	case 0:
		// zero or float64 subnormal; far below the smallest float16 subnormal
		return sign
	}

	exp -= 1023
	if exp > bias16 {
		// overflow
		return sign | uvinf
	}
	frac |= 1 << 52

	shift := 52 - shift16
	if exp < 1-bias16 {
		// the result is subnormal
		shift += 1 - bias16 - exp
	}
	if shift >= 64 {
		// underflow
		return sign
	}
	q := frac >> shift
	rem := frac & (1<<shift - 1)
	half := uint64(1) << (shift - 1)
	if rem > half || rem == half && q&1 != 0 {
		q++ // round to nearest even
	}

	if exp < 1-bias16 {
		// may have been rounded up into the smallest normal number
		return sign | Float16(q)
	}
	if q == 1<<(shift16+1) {
		q >>= 1
		exp++
		if exp > bias16 {
			return sign | uvinf
		}
	}
	return sign | Float16(exp+bias16)<<shift16 | Float16(q&fracMask16)
}

// String returns the shortest decimal representation of x.
func (x Float16) String() string {
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
