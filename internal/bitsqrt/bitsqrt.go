// Package bitsqrt computes correctly rounded square roots of binary
// floating-point significands, one result bit per step.
package bitsqrt

import "math/bits"

// Sqrt returns the square root of m·2^(exp-shift), where m is a significand
// with its leading one at bit shift.
//
// The root is rounded to nearest even and returned the same way: a significand
// with its leading one at bit shift, and its exponent.
// shift must be at most 24.
func Sqrt(m uint32, exp, shift int) (uint32, int) {
	if exp%2 != 0 { // odd exp, double m to make it even
		m <<= 1
	}
	// exponent of square root
	exp >>= 1

	// generate sqrt(m) bit by bit
	m <<= 1
	var q, s uint32 // q = sqrt(m)
	r := uint32(1) << (shift + 1)
	for r != 0 {
		t := s + r
		if t <= m {
			s = t + r
			m -= t
			q += r
		}
		m <<= 1
		r >>= 1
	}

	// final rounding; a square root is never exactly halfway
	if m != 0 {
		q += q & 1
	}
	return q >> 1, exp
}

// Normalize returns the significand and exponent of a subnormal fraction
// frac·2^(emin-shift), with the leading one moved to bit shift.
func Normalize(frac uint32, emin, shift int) (uint32, int) {
	l := bits.Len32(frac)
	return frac << (shift - l + 1), emin - shift + l - 1
}
