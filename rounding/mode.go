// Package rounding names the IEEE 754 rounding modes and manages
// the floating-point environment they are applied through.
package rounding

import (
	"fmt"
	"strings"
)

// Mode is a rounding direction.
type Mode int

const (
	// Indeterminate is the zero Mode. It means the mode is not known.
	Indeterminate Mode = iota
	// NearestEven rounds to nearest, ties to even. It is the IEEE 754 default.
	NearestEven
	// TowardZero truncates.
	TowardZero
	// Upward rounds toward +Inf.
	Upward
	// Downward rounds toward -Inf.
	Downward
	// AwayFromZero rounds away from zero. It is not an IEEE 754 mode.
	AwayFromZero
	// NearestAway rounds to nearest, ties away from zero.
	NearestAway
)

var modeNames = [...]string{
	Indeterminate: "indeterminate",
	NearestEven:   "nearest",
	TowardZero:    "toward-zero",
	Upward:        "upward",
	Downward:      "downward",
	AwayFromZero:  "away-from-zero",
	NearestAway:   "nearest-away",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid reports whether m names a rounding direction.
func (m Mode) Valid() bool {
	return m > Indeterminate && m <= NearestAway
}

// IEEE reports whether m is one of the four directions a binary floating-point
// environment must support.
func (m Mode) IEEE() bool {
	switch m {
	case NearestEven, TowardZero, Upward, Downward:
		return true
	}
	return false
}

// Directed reports whether m rounds in a fixed direction instead of to nearest.
func (m Mode) Directed() bool {
	switch m {
	case TowardZero, Upward, Downward, AwayFromZero:
		return true
	}
	return false
}

// ParseMode returns the mode named s.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m := NearestEven; m <= NearestAway; m++ {
		if modeNames[m] == s {
			return m, nil
		}
	}
	switch s {
	case "rne", "nearest-even":
		return NearestEven, nil
	case "rtz", "zero":
		return TowardZero, nil
	case "rup", "up":
		return Upward, nil
	case "rdn", "down":
		return Downward, nil
	}
	return Indeterminate, fmt.Errorf("rounding: unknown mode %q", s)
}

// AvailableModes returns the modes a test run exercises.
// By default only the IEEE default mode is used; exhaustive runs cover
// all four IEEE modes.
func AvailableModes(exhaustive bool) []Mode {
	if !exhaustive {
		return []Mode{NearestEven}
	}
	return []Mode{TowardZero, NearestEven, Upward, Downward}
}
