package format

import (
	"math"

	"github.com/shogo82148/ulpcheck/bfloat16"
	"github.com/shogo82148/ulpcheck/float16"
)

// Value is the set of narrow floating-point types.
type Value interface {
	float16.Float16 | bfloat16.BFloat16 | float32 | float64
}

// Of returns the format of T.
func Of[T Value]() Format {
	var zero T
	switch any(zero).(type) {
	case float16.Float16:
		return Float16
	case bfloat16.BFloat16:
		return BFloat16
	case float32:
		return Float32
	default:
		return Float64
	}
}

// Bits returns the encoding of x.
func Bits[T Value](x T) uint64 {
	switch v := any(x).(type) {
	case float16.Float16:
		return uint64(v.Bits())
	case bfloat16.BFloat16:
		return uint64(v.Bits())
	case float32:
		return uint64(math.Float32bits(v))
	case float64:
		return math.Float64bits(v)
	}
	panic("unreachable")
}

// FromBits returns the value with encoding b.
// Bits above the width of T are ignored.
func FromBits[T Value](b uint64) T {
	var ret T
	switch p := any(&ret).(type) {
	case *float16.Float16:
		*p = float16.FromBits(uint16(b))
	case *bfloat16.BFloat16:
		*p = bfloat16.FromBits(uint16(b))
	case *float32:
		*p = math.Float32frombits(uint32(b))
	case *float64:
		*p = math.Float64frombits(b)
	}
	return ret
}

// Widen returns x converted exactly to float64.
func Widen[T Value](x T) float64 {
	return Of[T]().ToFloat64(Bits(x))
}

// FromFloat64 returns the T nearest to d, rounding ties to even.
func FromFloat64[T Value](d float64) T {
	return FromBits[T](Of[T]().FromFloat64(d))
}

// IsNaN reports whether x is a NaN.
func IsNaN[T Value](x T) bool {
	return Of[T]().IsNaN(Bits(x))
}
