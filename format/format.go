// Package format describes the binary floating-point formats the harness
// works with and converts values of those formats to and from their encodings.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/shogo82148/ulpcheck/bfloat16"
	"github.com/shogo82148/ulpcheck/float16"
)

// Format identifies a binary floating-point format.
type Format int

const (
	Float16 Format = iota + 1
	BFloat16
	Float32
	Float64
)

// All lists every supported format, narrowest first.
var All = []Format{Float16, BFloat16, Float32, Float64}

type params struct {
	name     string
	bits     int
	mantBits int // stored mantissa bits
	expBits  int
	emax     int
	emin     int
}

var table = [...]params{
	Float16:  {name: "float16", bits: 16, mantBits: 10, expBits: 5, emax: 15, emin: -14},
	BFloat16: {name: "bfloat16", bits: 16, mantBits: 7, expBits: 8, emax: 127, emin: -126},
	Float32:  {name: "float32", bits: 32, mantBits: 23, expBits: 8, emax: 127, emin: -126},
	Float64:  {name: "float64", bits: 64, mantBits: 52, expBits: 11, emax: 1023, emin: -1022},
}

func (f Format) params() *params {
	if f < Float16 || f > Float64 {
		panic(fmt.Sprintf("format: invalid format %d", int(f)))
	}
	return &table[f]
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	return f >= Float16 && f <= Float64
}

func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return table[f].name
}

// Parse returns the format named s.
func Parse(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "fp16", "half", "binary16":
		return Float16, nil
	case "bf16":
		return BFloat16, nil
	case "fp32", "single", "binary32":
		return Float32, nil
	case "fp64", "double", "binary64":
		return Float64, nil
	}
	for _, f := range All {
		if table[f].name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("format: unknown format %q", s)
}

// Bits returns the width of the encoding in bits.
func (f Format) Bits() int { return f.params().bits }

// MantBits returns the number of stored mantissa bits.
func (f Format) MantBits() int { return f.params().mantBits }

// ExpBits returns the width of the exponent field.
func (f Format) ExpBits() int { return f.params().expBits }

// Precision returns the number of significand bits including the implicit one.
func (f Format) Precision() int { return f.params().mantBits + 1 }

// Emax returns the largest unbiased exponent of a finite value.
func (f Format) Emax() int { return f.params().emax }

// Emin returns the smallest unbiased exponent of a normal value.
func (f Format) Emin() int { return f.params().emin }

// MinSubnormalExp returns the exponent of the smallest positive subnormal.
// It is also the exponent of one ulp in the subnormal range.
func (f Format) MinSubnormalExp() int {
	p := f.params()
	return p.emin - p.mantBits
}

// WorkingPrecision returns the oracle precision used for values of the format.
func (f Format) WorkingPrecision() uint {
	if f == Float64 {
		return 256
	}
	return 128
}

func (f Format) signMask() uint64 {
	return 1 << (f.params().bits - 1)
}

func (f Format) fracMask() uint64 {
	return 1<<f.params().mantBits - 1
}

func (f Format) expMask() uint64 {
	p := f.params()
	return (1<<p.expBits - 1) << p.mantBits
}

// SignMask returns the encoding bit holding the sign.
func (f Format) SignMask() uint64 { return f.signMask() }

// Class is the IEEE 754 class of an encoding.
type Class int

const (
	ClassNaN Class = iota
	ClassInf
	ClassZero
	ClassSubnormal
	ClassNormal
)

func (c Class) String() string {
	switch c {
	case ClassNaN:
		return "nan"
	case ClassInf:
		return "inf"
	case ClassZero:
		return "zero"
	case ClassSubnormal:
		return "subnormal"
	case ClassNormal:
		return "normal"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// Classify returns the class of the encoding b.
func (f Format) Classify(b uint64) Class {
	exp := b & f.expMask()
	frac := b & f.fracMask()
	switch {
	case exp == f.expMask() && frac != 0:
		return ClassNaN
	case exp == f.expMask():
		return ClassInf
	case exp == 0 && frac == 0:
		return ClassZero
	case exp == 0:
		return ClassSubnormal
	}
	return ClassNormal
}

// IsNaN reports whether b encodes a NaN.
func (f Format) IsNaN(b uint64) bool {
	return f.Classify(b) == ClassNaN
}

// Signbit reports whether the sign bit of b is set.
func (f Format) Signbit(b uint64) bool {
	return b&f.signMask() != 0
}

func (f Format) sign(neg bool) uint64 {
	if neg {
		return f.signMask()
	}
	return 0
}

// NaN returns the canonical quiet NaN encoding.
func (f Format) NaN() uint64 {
	return f.expMask() | 1<<(f.params().mantBits-1)
}

// Inf returns the encoding of an infinity.
func (f Format) Inf(neg bool) uint64 {
	return f.sign(neg) | f.expMask()
}

// Zero returns the encoding of a zero.
func (f Format) Zero(neg bool) uint64 {
	return f.sign(neg)
}

// MaxFinite returns the encoding of the largest finite magnitude.
func (f Format) MaxFinite(neg bool) uint64 {
	return f.sign(neg) | (f.expMask() - 1<<f.params().mantBits) | f.fracMask()
}

// MinNormal returns the encoding of the smallest normal magnitude.
func (f Format) MinNormal(neg bool) uint64 {
	return f.sign(neg) | 1<<f.params().mantBits
}

// MaxSubnormal returns the encoding of the largest subnormal magnitude.
func (f Format) MaxSubnormal(neg bool) uint64 {
	return f.sign(neg) | f.fracMask()
}

// SmallestSubnormal returns the encoding of the smallest nonzero magnitude.
func (f Format) SmallestSubnormal(neg bool) uint64 {
	return f.sign(neg) | 1
}

// ToFloat64 returns the value of the encoding b as a float64.
// The conversion is exact for every format.
func (f Format) ToFloat64(b uint64) float64 {
	switch f {
	case Float16:
		return float16.FromBits(uint16(b)).Float64()
	case BFloat16:
		return bfloat16.FromBits(uint16(b)).Float64()
	case Float32:
		return float64(math.Float32frombits(uint32(b)))
	case Float64:
		return math.Float64frombits(b)
	}
	panic(fmt.Sprintf("format: invalid format %d", int(f)))
}

// FromFloat64 returns the encoding nearest to d, rounding ties to even.
func (f Format) FromFloat64(d float64) uint64 {
	switch f {
	case Float16:
		return uint64(float16.FromFloat64(d).Bits())
	case BFloat16:
		return uint64(bfloat16.FromFloat64(d).Bits())
	case Float32:
		return uint64(math.Float32bits(float32(d)))
	case Float64:
		return math.Float64bits(d)
	}
	panic(fmt.Sprintf("format: invalid format %d", int(f)))
}

// Hex formats the encoding b as a zero padded hexadecimal number.
func (f Format) Hex(b uint64) string {
	return fmt.Sprintf("0x%0*x", f.params().bits/4, b)
}
