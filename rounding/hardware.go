package rounding

import (
	"errors"
	"sync"
)

// ErrNoHardware is returned by Hardware on platforms where the floating-point
// control register cannot be reached.
var ErrNoHardware = errors.New("rounding: hardware rounding control is not supported on this platform")

var (
	hardwareOnce sync.Once
	hardwareEnv  *libcEnv
	hardwareErr  error
)

// Hardware returns the Environment of the host floating-point unit.
// The mode lives in a per-thread control register, so it is only meaningful
// inside a Scope, which pins the goroutine to its thread.
//
// The C library is loaded on the first call and kept for the life of the process.
func Hardware() (Environment, error) {
	hardwareOnce.Do(func() {
		hardwareEnv, hardwareErr = loadLibc()
	})
	if hardwareErr != nil {
		return nil, hardwareErr
	}
	return hardwareEnv, nil
}
