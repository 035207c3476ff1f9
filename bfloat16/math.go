package bfloat16

import "github.com/shogo82148/ulpcheck/internal/bitsqrt"

// Add returns the sum of a and b.
//
// The sum is computed in float32 and then rounded to nearest even.
// float32 carries more than twice the precision of bfloat16,
// so the second rounding does not change the result when the float32
// sum is rounded to nearest; under any other hardware rounding mode
// the final rounding is still to nearest.
func (a BFloat16) Add(b BFloat16) BFloat16 {
	return FromFloat32(a.Float32() + b.Float32())
}

// Sqrt returns the square root of x, rounded to nearest even.
//
// Special cases are:
//
//	Sqrt(+Inf) = +Inf
//	Sqrt(±0) = ±0
//	Sqrt(x < 0) = NaN
//	Sqrt(NaN) = NaN
func (x BFloat16) Sqrt() BFloat16 {
	// special cases
	switch {
	case x&^signMask == 0 || x.IsNaN() || x == uvinf:
		return x
	case x&signMask != 0:
		return uvnan
	}

	exp := int((x >> shift) & expMask)
	frac := uint32(x & fracMask)
	if exp == 0 {
		frac, exp = bitsqrt.Normalize(frac, 1-bias, shift)
	} else {
		frac |= 1 << shift
		exp -= bias
	}

	q, e := bitsqrt.Sqrt(frac, exp, shift)
	return BFloat16((e-1+bias)<<shift) + BFloat16(q)
}
