//go:build (darwin || linux) && (amd64 || arm64)

package rounding

import (
	"fmt"
	"runtime"

	"github.com/ebitengine/purego"
)

func libmPath() string {
	if runtime.GOOS == "darwin" {
		return "/usr/lib/libSystem.B.dylib"
	}
	return "libm.so.6"
}

// libcEnv reaches the floating-point environment through fegetround and fesetround.
type libcEnv struct {
	handle     uintptr
	fegetround func() int32
	fesetround func(int32) int32
}

func loadLibc() (*libcEnv, error) {
	path := libmPath()
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("rounding: failed to open %s: %w", path, err)
	}

	env := &libcEnv{handle: handle}
	funcs := []struct {
		fptr any
		name string
	}{
		{&env.fegetround, "fegetround"},
		{&env.fesetround, "fesetround"},
	}
	for _, f := range funcs {
		sym, err := purego.Dlsym(handle, f.name)
		if err != nil {
			purego.Dlclose(handle)
			return nil, fmt.Errorf("rounding: failed to find %s in %s: %w", f.name, path, err)
		}
		purego.RegisterFunc(f.fptr, sym)
	}
	return env, nil
}

func (e *libcEnv) Mode() Mode {
	switch e.fegetround() {
	case feToNearest:
		return NearestEven
	case feTowardZero:
		return TowardZero
	case feUpward:
		return Upward
	case feDownward:
		return Downward
	}
	return Indeterminate
}

func (e *libcEnv) SetMode(mode Mode) bool {
	var v int32
	switch mode {
	case NearestEven:
		v = feToNearest
	case TowardZero:
		v = feTowardZero
	case Upward:
		v = feUpward
	case Downward:
		v = feDownward
	default:
		// the hardware has no control for the other modes
		return false
	}
	return e.fesetround(v) == 0
}
