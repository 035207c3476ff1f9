//go:build darwin || linux

package rounding

// rounding control values of the x86 fenv.h
const (
	feToNearest  = 0x000
	feDownward   = 0x400
	feUpward     = 0x800
	feTowardZero = 0xc00
)
