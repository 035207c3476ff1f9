//go:build darwin || linux

package rounding

// rounding control values of the AArch64 fenv.h; they are the RMode bits of FPCR.
const (
	feToNearest  = 0x000000
	feUpward     = 0x400000
	feDownward   = 0x800000
	feTowardZero = 0xc00000
)
