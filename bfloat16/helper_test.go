package bfloat16

import "math"

type xorshift32 struct {
	state uint32
}

func newXorshift32() *xorshift32 {
	return &xorshift32{state: 2463534242}
}

func (r *xorshift32) Uint32() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// BFloat16Pair returns two random BFloat16 values.
func (r *xorshift32) BFloat16Pair() (BFloat16, BFloat16) {
	v := r.Uint32()
	return BFloat16(v), BFloat16(v >> 16)
}

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

func (r *xorshift64) Float64() float64 {
	return math.Float64frombits(r.Uint64())
}
