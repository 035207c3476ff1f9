package float16

import "github.com/shogo82148/ulpcheck/internal/bitsqrt"

// Sqrt returns the square root of x, rounded to nearest even.
//
// Special cases are:
//
//	Sqrt(+Inf) = +Inf
//	Sqrt(±0) = ±0
//	Sqrt(x < 0) = NaN
//	Sqrt(NaN) = NaN
func (x Float16) Sqrt() Float16 {
	// special cases
	switch {
	case x&^signMask16 == 0 || x.IsNaN() || x.IsInf(1):
		return x
	case x&signMask16 != 0:
		return uvnan
	}

	exp := int((x >> shift16) & mask16)
	frac := uint32(x & fracMask16)
	if exp == 0 {
		frac, exp = bitsqrt.Normalize(frac, 1-bias16, shift16)
	} else {
		frac |= 1 << shift16
		exp -= bias16
	}

	q, e := bitsqrt.Sqrt(frac, exp, shift16)
	// q carries the implicit bit into the exponent field
	return Float16((e-1+bias16)<<shift16) + Float16(q)
}
