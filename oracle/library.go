package oracle

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/shogo82148/ulpcheck/format"
	"github.com/shogo82148/ulpcheck/rounding"
)

// ErrClosed is returned when a closed Library is used.
var ErrClosed = errors.New("oracle: library is closed")

// maxCached bounds the free list of each precision.
const maxCached = 64

// Library hands out scratch Values of the supported working precisions
// and recycles them.
//
// A Library is safe for concurrent use; the Values it returns are not.
type Library struct {
	mu     sync.Mutex
	precs  []uint
	free   map[uint][]*Value
	closed bool
}

// Open returns a Library supporting the given precisions.
// Every precision is checked with a known square root before it is accepted.
func Open(precs ...uint) (*Library, error) {
	if len(precs) == 0 {
		return nil, errors.New("oracle: no precision requested")
	}
	lib := &Library{
		free: make(map[uint][]*Value, len(precs)),
	}
	for _, p := range precs {
		if err := selfTest(p); err != nil {
			return nil, err
		}
		if !lib.supports(p) {
			lib.precs = append(lib.precs, p)
		}
	}
	sort.Slice(lib.precs, func(i, j int) bool { return lib.precs[i] < lib.precs[j] })
	return lib, nil
}

// MustOpen is like Open but panics if a precision cannot be supported.
// Nothing can be checked without the oracle, so this is fatal.
func MustOpen(precs ...uint) *Library {
	lib, err := Open(precs...)
	if err != nil {
		panic(err)
	}
	return lib
}

func selfTest(prec uint) error {
	if prec < 2 || prec > big.MaxPrec {
		return fmt.Errorf("oracle: unsupported precision %d", prec)
	}
	// sqrt(2) rounded down and up must bracket sqrt(2) one ulp apart.
	two := NewPrec(prec, rounding.NearestEven).SetFloat64(2)
	lo := NewPrec(prec, rounding.Downward)
	hi := NewPrec(prec, rounding.Upward)
	if lo.Sqrt(two) != big.Below || hi.Sqrt(two) != big.Above {
		return fmt.Errorf("oracle: inexact square root is not detected at precision %d", prec)
	}
	// hi - lo = 2^(1 - prec), sqrt(2) is in [1, 2)
	diff := NewPrec(prec, rounding.NearestEven)
	diff.Sub(hi, lo)
	if diff.CmpScaled(1, 1-int(prec)) != 0 {
		return fmt.Errorf("oracle: square root bracket is not one ulp wide at precision %d", prec)
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default returns the process-wide Library.
// It supports the working precisions of every format and is created on first use.
func Default() *Library {
	defaultOnce.Do(func() {
		precs := make([]uint, 0, len(format.All))
		for _, f := range format.All {
			precs = append(precs, f.WorkingPrecision())
		}
		defaultLib = MustOpen(precs...)
	})
	return defaultLib
}

func (lib *Library) supports(prec uint) bool {
	for _, p := range lib.precs {
		if p == prec {
			return true
		}
	}
	return false
}

// Supports reports whether lib provides Values of precision prec.
func (lib *Library) Supports(prec uint) bool {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	return lib.supports(prec)
}

// Precisions returns the supported precisions in increasing order.
func (lib *Library) Precisions() []uint {
	lib.mu.Lock()
	defer lib.mu.Unlock()
	return append([]uint(nil), lib.precs...)
}

// Get returns a zero Value at the working precision of f with the given mode.
// It panics if lib is closed or does not support the precision.
func (lib *Library) Get(f format.Format, mode rounding.Mode) *Value {
	v, err := lib.GetPrec(f.WorkingPrecision(), mode)
	if err != nil {
		panic(err)
	}
	return v
}

// GetPrec returns a zero Value of precision prec with the given mode.
func (lib *Library) GetPrec(prec uint, mode rounding.Mode) (*Value, error) {
	lib.mu.Lock()
	defer lib.mu.Unlock()

	if lib.closed {
		return nil, ErrClosed
	}
	if !lib.supports(prec) {
		return nil, fmt.Errorf("oracle: precision %d is not supported", prec)
	}

	if mode == rounding.Indeterminate {
		mode = rounding.NearestEven
	}
	free := lib.free[prec]
	if n := len(free); n > 0 {
		v := free[n-1]
		free[n-1] = nil
		lib.free[prec] = free[:n-1]
		v.SetMode(mode).SetZero(1)
		return v, nil
	}
	return NewPrec(prec, mode), nil
}

// Put returns v to lib for reuse. v must not be used afterwards.
func (lib *Library) Put(v *Value) {
	if v == nil {
		return
	}
	lib.mu.Lock()
	defer lib.mu.Unlock()

	if lib.closed || !lib.supports(v.prec) || len(lib.free[v.prec]) >= maxCached {
		return
	}
	lib.free[v.prec] = append(lib.free[v.prec], v)
}

// Close frees the cached Values. Values obtained earlier stay valid.
func (lib *Library) Close() error {
	lib.mu.Lock()
	defer lib.mu.Unlock()

	if lib.closed {
		return ErrClosed
	}
	lib.closed = true
	lib.free = nil
	return nil
}
