package narrow

import "math"

type xorshift64 struct {
	state uint64
}

func newXorshift64() *xorshift64 {
	return &xorshift64{state: 88172645463325252}
}

func (r *xorshift64) Uint64() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// Float64InRange returns a random float64 with a full random significand,
// a random sign and a binary exponent in [lo, hi].
func (r *xorshift64) Float64InRange(lo, hi int) float64 {
	b := r.Uint64()
	frac := 1 + float64(b>>12)*0x1p-52
	exp := lo + int(b>>1%uint64(hi-lo+1))
	d := math.Ldexp(frac, exp)
	if b&1 != 0 {
		d = -d
	}
	return d
}
