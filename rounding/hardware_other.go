//go:build !((darwin || linux) && (amd64 || arm64))

package rounding

type libcEnv struct{}

func loadLibc() (*libcEnv, error) {
	return nil, ErrNoHardware
}

func (e *libcEnv) Mode() Mode {
	return Indeterminate
}

func (e *libcEnv) SetMode(mode Mode) bool {
	return false
}
