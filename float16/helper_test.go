package float16

import "math"

// xorshift32 is a small deterministic generator for benchmarks.
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

func (r *xorshift32) Float32() float32 {
	return math.Float32frombits(r.Uint32())
}

// Float16Pair returns two random Float16 values.
func (r *xorshift32) Float16Pair() (Float16, Float16) {
	v := r.Uint32()
	return Float16(v), Float16(v >> 16)
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
