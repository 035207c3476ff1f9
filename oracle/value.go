// Package oracle provides correctly rounded reference arithmetic for checking
// narrow floating-point routines.
//
// A Value is a binary floating-point number of a fixed working precision
// that is much wider than the narrow format under test. Every operator rounds
// once, under the rounding mode of its result, so a Value narrowed to the
// target format gives the correctly rounded answer.
package oracle

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shogo82148/ulpcheck/format"
	"github.com/shogo82148/ulpcheck/rounding"
)

// Value is an arbitrary-precision binary floating-point value with IEEE 754
// special values.
//
// The zero Value is not usable; create Values with New, NewPrec or Library.Get.
// A Value is owned by its creator and must not be mutated concurrently.
// Results may alias operands.
type Value struct {
	f    big.Float
	prec uint
	nan  bool
}

// BigMode returns the big.RoundingMode for mode.
func BigMode(mode rounding.Mode) big.RoundingMode {
	switch mode {
	case rounding.NearestEven:
		return big.ToNearestEven
	case rounding.NearestAway:
		return big.ToNearestAway
	case rounding.TowardZero:
		return big.ToZero
	case rounding.Upward:
		return big.ToPositiveInf
	case rounding.Downward:
		return big.ToNegativeInf
	case rounding.AwayFromZero:
		return big.AwayFromZero
	}
	panic(fmt.Sprintf("oracle: invalid rounding mode %v", mode))
}

func fromBigMode(mode big.RoundingMode) rounding.Mode {
	switch mode {
	case big.ToNearestEven:
		return rounding.NearestEven
	case big.ToNearestAway:
		return rounding.NearestAway
	case big.ToZero:
		return rounding.TowardZero
	case big.ToPositiveInf:
		return rounding.Upward
	case big.ToNegativeInf:
		return rounding.Downward
	case big.AwayFromZero:
		return rounding.AwayFromZero
	}
	return rounding.Indeterminate
}

// New returns a zero Value with the working precision of f.
// An Indeterminate mode means NearestEven.
func New(f format.Format, mode rounding.Mode) *Value {
	return NewPrec(f.WorkingPrecision(), mode)
}

// NewPrec returns a zero Value with precision prec.
// An Indeterminate mode means NearestEven.
func NewPrec(prec uint, mode rounding.Mode) *Value {
	if prec == 0 || prec > big.MaxPrec {
		panic(fmt.Sprintf("oracle: invalid precision %d", prec))
	}
	if mode == rounding.Indeterminate {
		mode = rounding.NearestEven
	}
	z := &Value{prec: prec}
	z.f.SetPrec(prec).SetMode(BigMode(mode))
	return z
}

// restore brings the precision back to the working precision after
// RoundToPrec. Raising the precision is exact.
func (z *Value) restore() {
	if z.f.Prec() != z.prec {
		z.f.SetPrec(z.prec)
	}
}

// Prec returns the working precision of z in bits.
func (z *Value) Prec() uint {
	return z.prec
}

// Mode returns the rounding mode of z.
func (z *Value) Mode() rounding.Mode {
	return fromBigMode(z.f.Mode())
}

// SetMode sets the rounding mode used by operations that store into z.
func (z *Value) SetMode(mode rounding.Mode) *Value {
	z.f.SetMode(BigMode(mode))
	return z
}

// SetFloat64 sets z to d.
func (z *Value) SetFloat64(d float64) *Value {
	if math.IsNaN(d) {
		return z.SetNaN()
	}
	z.nan = false
	z.restore()
	z.f.SetFloat64(d)
	return z
}

// SetFloat32 sets z to d.
func (z *Value) SetFloat32(d float32) *Value {
	return z.SetFloat64(float64(d))
}

// Set sets z to x, rounded to the working precision of z.
func (z *Value) Set(x *Value) *Value {
	if z == x {
		return z
	}
	z.nan = x.nan
	z.restore()
	z.f.Set(&x.f)
	return z
}

// Assign sets z to the narrow value x. The conversion is exact.
func Assign[T format.Value](z *Value, x T) *Value {
	return z.SetFloat64(format.Widen(x))
}

// Copy returns a new Value with the same precision, mode and value as z.
func (z *Value) Copy() *Value {
	c := NewPrec(z.prec, z.Mode())
	c.nan = z.nan
	c.f.Set(&z.f)
	return c
}

// SetNaN sets z to NaN.
func (z *Value) SetNaN() *Value {
	z.nan = true
	z.restore()
	z.f.SetInt64(0)
	return z
}

// SetInf sets z to +Inf if sign >= 0, -Inf otherwise.
func (z *Value) SetInf(sign int) *Value {
	z.nan = false
	z.restore()
	z.f.SetInf(sign < 0)
	return z
}

// SetZero sets z to +0 if sign >= 0, -0 otherwise.
func (z *Value) SetZero(sign int) *Value {
	z.nan = false
	z.restore()
	z.f.SetInt64(0)
	if sign < 0 {
		z.f.Neg(&z.f)
	}
	return z
}

// Float64 returns the float64 nearest to z, rounding ties to even,
// and the accuracy of the result.
func (z *Value) Float64() (float64, big.Accuracy) {
	if z.nan {
		return math.NaN(), big.Exact
	}
	return z.f.Float64()
}

// Float32 returns the float32 nearest to z, rounding ties to even,
// and the accuracy of the result.
func (z *Value) Float32() (float32, big.Accuracy) {
	if z.nan {
		return float32(math.NaN()), big.Exact
	}
	return z.f.Float32()
}

// IsNaN reports whether z is NaN.
func (z *Value) IsNaN() bool {
	return z.nan
}

// IsInf reports whether z is an infinity.
func (z *Value) IsInf() bool {
	return !z.nan && z.f.IsInf()
}

// IsZero reports whether z is ±0.
func (z *Value) IsZero() bool {
	return !z.nan && z.f.Sign() == 0
}

// IsFinite reports whether z is neither NaN nor an infinity.
func (z *Value) IsFinite() bool {
	return !z.nan && !z.f.IsInf()
}

// IsRegular reports whether z is finite and nonzero.
func (z *Value) IsRegular() bool {
	return z.IsFinite() && z.f.Sign() != 0
}

// Signbit reports whether z is negative or negative zero.
// It is false for NaN.
func (z *Value) Signbit() bool {
	return !z.nan && z.f.Signbit()
}

// Sign returns -1, 0 or +1 for negative, zero or NaN, and positive z.
func (z *Value) Sign() int {
	if z.nan {
		return 0
	}
	return z.f.Sign()
}

// Exponent returns the exponent e with z = m × 2^e and 0.5 <= |m| < 1.
// It is 0 for zeros, infinities and NaN.
func (z *Value) Exponent() int {
	if !z.IsRegular() {
		return 0
	}
	return z.f.MantExp(nil)
}

// Unordered reports whether z or y is NaN.
func (z *Value) Unordered(y *Value) bool {
	return z.nan || y.nan
}

// Cmp compares z and y and returns -1, 0 or +1.
// It returns 0 if z and y are unordered; use Unordered to tell the cases apart.
func (z *Value) Cmp(y *Value) int {
	if z.Unordered(y) {
		return 0
	}
	return z.f.Cmp(&y.f)
}

// CmpFloat64 compares z and d. It returns 0 if either is NaN.
func (z *Value) CmpFloat64(d float64) int {
	if z.nan || math.IsNaN(d) {
		return 0
	}
	var t big.Float
	t.SetFloat64(d)
	return z.f.Cmp(&t)
}

// CmpScaled compares z with m × 2^e exactly. It returns 0 if z is NaN.
func (z *Value) CmpScaled(m int64, e int) int {
	if z.nan {
		return 0
	}
	var t big.Float
	t.SetInt64(m)
	t.SetMantExp(&t, e)
	return z.f.Cmp(&t)
}

// RoundToPrec rounds z in place to prec significant bits under mode.
// The next operation that stores into z works at the full precision again.
func (z *Value) RoundToPrec(prec uint, mode rounding.Mode) big.Accuracy {
	if prec == 0 {
		panic("oracle: zero precision")
	}
	if z.nan {
		return big.Exact
	}
	saved := z.f.Mode()
	z.f.SetMode(BigMode(mode))
	z.f.SetPrec(prec)
	acc := z.f.Acc()
	z.f.SetMode(saved)
	return acc
}

func (z *Value) nanResult() big.Accuracy {
	z.SetNaN()
	return big.Exact
}

// Abs sets z to |x|.
func (z *Value) Abs(x *Value) big.Accuracy {
	if x.nan {
		return z.nanResult()
	}
	z.nan = false
	z.restore()
	z.f.Abs(&x.f)
	return z.f.Acc()
}

// Neg sets z to -x.
func (z *Value) Neg(x *Value) big.Accuracy {
	if x.nan {
		return z.nanResult()
	}
	z.nan = false
	z.restore()
	z.f.Neg(&x.f)
	return z.f.Acc()
}

// Add sets z to the rounded sum x+y.
func (z *Value) Add(x, y *Value) big.Accuracy {
	if x.nan || y.nan || x.f.IsInf() && y.f.IsInf() && x.f.Signbit() != y.f.Signbit() {
		return z.nanResult()
	}
	z.nan = false
	z.restore()
	z.f.Add(&x.f, &y.f)
	return z.f.Acc()
}

// Sub sets z to the rounded difference x-y.
func (z *Value) Sub(x, y *Value) big.Accuracy {
	if x.nan || y.nan || x.f.IsInf() && y.f.IsInf() && x.f.Signbit() == y.f.Signbit() {
		return z.nanResult()
	}
	z.nan = false
	z.restore()
	z.f.Sub(&x.f, &y.f)
	return z.f.Acc()
}

// Float64Sub sets z to the rounded difference d-x.
func (z *Value) Float64Sub(d float64, x *Value) big.Accuracy {
	if math.IsNaN(d) || x.nan || math.IsInf(d, 0) && x.f.IsInf() && math.Signbit(d) == x.f.Signbit() {
		return z.nanResult()
	}
	var t big.Float
	t.SetFloat64(d)
	z.nan = false
	z.restore()
	z.f.Sub(&t, &x.f)
	return z.f.Acc()
}

// SubFloat64 sets z to the rounded difference x-d.
func (z *Value) SubFloat64(x *Value, d float64) big.Accuracy {
	if math.IsNaN(d) || x.nan || math.IsInf(d, 0) && x.f.IsInf() && math.Signbit(d) == x.f.Signbit() {
		return z.nanResult()
	}
	var t big.Float
	t.SetFloat64(d)
	z.nan = false
	z.restore()
	z.f.Sub(&x.f, &t)
	return z.f.Acc()
}

// Mul sets z to the rounded product x×y.
func (z *Value) Mul(x, y *Value) big.Accuracy {
	if x.nan || y.nan || x.f.IsInf() && y.f.Sign() == 0 || x.f.Sign() == 0 && y.f.IsInf() {
		return z.nanResult()
	}
	z.nan = false
	z.restore()
	z.f.Mul(&x.f, &y.f)
	return z.f.Acc()
}

// Quo sets z to the rounded quotient x/y.
func (z *Value) Quo(x, y *Value) big.Accuracy {
	if x.nan || y.nan || x.f.IsInf() && y.f.IsInf() || x.f.Sign() == 0 && y.f.Sign() == 0 {
		return z.nanResult()
	}
	z.nan = false
	z.restore()
	z.f.Quo(&x.f, &y.f)
	return z.f.Acc()
}

// MulPow2 sets z to x × 2^n.
func (z *Value) MulPow2(x *Value, n int) big.Accuracy {
	if x.nan {
		return z.nanResult()
	}
	z.nan = false
	z.restore()
	z.f.SetMantExp(&x.f, n)
	return z.f.Acc()
}

// Sqrt sets z to the rounded square root of x.
//
// Special cases are:
//
//	Sqrt(+Inf) = +Inf
//	Sqrt(±0) = ±0
//	Sqrt(x < 0) = NaN
//	Sqrt(NaN) = NaN
func (z *Value) Sqrt(x *Value) big.Accuracy {
	if x.nan || x.f.Sign() < 0 {
		return z.nanResult()
	}
	if !x.IsRegular() {
		z.Set(x)
		return big.Exact
	}

	z.nan = false
	z.restore()
	return sqrtInt(&z.f, &x.f)
}

// sqrtInt sets z to the square root of the positive finite x, rounded once
// to the precision and mode of z.
//
// big.Float.Sqrt is not correctly rounded in the directed modes, so the root
// is computed on integers: x = n × 2^s with s even, then q = isqrt(n) carries
// at least two bits more than z and a sticky bit marks an inexact root.
func sqrtInt(z, x *big.Float) big.Accuracy {
	var m big.Float
	exp := x.MantExp(&m)
	mp := int(x.MinPrec())
	m.SetMantExp(&m, mp)
	n, _ := m.Int(nil)
	s := exp - mp

	t := 2*(int(z.Prec())+2) - n.BitLen()
	if t < 0 {
		t = 0
	}
	if (s-t)%2 != 0 {
		t++
	}
	n.Lsh(n, uint(t))
	s -= t

	q := new(big.Int).Sqrt(n)
	var sq big.Int
	if sq.Mul(q, q).Cmp(n) != 0 {
		q.Lsh(q, 1)
		q.SetBit(q, 0, 1)
		s -= 2
	}
	z.SetInt(q)
	acc := z.Acc()
	z.SetMantExp(z, s/2)
	return acc
}

// String returns z in decimal with 20 significant digits.
func (z *Value) String() string {
	if z.nan {
		return "NaN"
	}
	return z.f.Text('g', 20)
}

// UnaryOp is an oracle operator of one argument.
// It stores the correctly rounded result in z.
type UnaryOp func(z, x *Value) big.Accuracy

// BinaryOp is an oracle operator of two arguments.
type BinaryOp func(z, x, y *Value) big.Accuracy

// Sqrt is the square root operator.
func Sqrt(z, x *Value) big.Accuracy { return z.Sqrt(x) }

// Neg is the negation operator.
func Neg(z, x *Value) big.Accuracy { return z.Neg(x) }

// Abs is the absolute value operator.
func Abs(z, x *Value) big.Accuracy { return z.Abs(x) }

// Add is the addition operator.
func Add(z, x, y *Value) big.Accuracy { return z.Add(x, y) }

// Mul is the multiplication operator.
func Mul(z, x, y *Value) big.Accuracy { return z.Mul(x, y) }
