package rounding

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
)

// ErrModeRefused is returned by Enter when the environment does not adopt
// the requested mode. Callers should skip the work that needs the mode.
var ErrModeRefused = errors.New("rounding: mode refused by the environment")

// Environment is a floating-point environment whose rounding mode can be read
// and changed.
//
// Mutate an Environment only through Enter or Do.
type Environment interface {
	// Mode returns the active rounding mode.
	Mode() Mode

	// SetMode changes the active rounding mode.
	// It reports whether the environment adopted the mode.
	SetMode(mode Mode) bool
}

// Software is an Environment that only records the mode.
// It accepts every valid mode and does not touch the hardware.
type Software struct {
	mode atomic.Int32
}

// NewSoftware returns a Software environment in the NearestEven mode.
func NewSoftware() *Software {
	s := &Software{}
	s.mode.Store(int32(NearestEven))
	return s
}

func (s *Software) Mode() Mode {
	m := Mode(s.mode.Load())
	if m == Indeterminate {
		return NearestEven
	}
	return m
}

func (s *Software) SetMode(mode Mode) bool {
	if !mode.Valid() {
		return false
	}
	s.mode.Store(int32(mode))
	return true
}

var defaultEnv = NewSoftware()

// Default returns the process-wide Software environment.
func Default() *Software {
	return defaultEnv
}

// Scope holds a rounding mode until Exit is called.
//
// A Scope locks the calling goroutine to its OS thread, because hardware
// rounding modes are per thread. Scopes must be exited in reverse order
// of entry, on the goroutine that entered them.
type Scope struct {
	env    Environment
	prev   Mode
	mode   Mode
	exited bool
}

// Enter sets the rounding mode of env to mode and returns a Scope
// that restores the previous mode.
// If env does not adopt the mode, the previous mode is restored and
// ErrModeRefused is returned.
func Enter(env Environment, mode Mode) (*Scope, error) {
	if !mode.Valid() {
		panic(fmt.Sprintf("rounding: invalid mode %v", mode))
	}

	runtime.LockOSThread()
	prev := env.Mode()
	if prev != mode {
		if !env.SetMode(mode) || env.Mode() != mode {
			env.SetMode(prev)
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("%w: %s", ErrModeRefused, mode)
		}
	}
	return &Scope{
		env:  env,
		prev: prev,
		mode: mode,
	}, nil
}

// Mode returns the mode held by s.
func (s *Scope) Mode() Mode {
	return s.mode
}

// Exit restores the mode that was active when s was entered.
// Calling Exit more than once has no effect.
func (s *Scope) Exit() {
	if s == nil || s.exited {
		return
	}
	s.exited = true
	s.env.SetMode(s.prev)
	runtime.UnlockOSThread()
}

// Do calls fn with the rounding mode of env set to mode.
// The previous mode is restored when fn returns or panics.
func Do(env Environment, mode Mode, fn func() error) error {
	s, err := Enter(env, mode)
	if err != nil {
		return err
	}
	defer s.Exit()
	return fn()
}
