package float16

import (
	"runtime"
	"testing"
)

func TestAdd(t *testing.T) {
	tests := []struct {
		a, b Float16
		want Float16
	}{
		{0x0000, 0x0000, 0x0000}, // 0 + 0 = 0
		{0x8000, 0x8000, 0x8000}, // -0 + -0 = -0
		{0x8000, 0x0000, 0x0000}, // -0 + 0 = 0
		{0x3c00, 0xbc00, 0x0000}, // 1 + -1 = 0
		{0x3c00, 0x3c00, 0x4000}, // 1 + 1 = 2
		{0x0001, 0x0001, 0x0002}, // subnormal + subnormal
		{0x03ff, 0x0001, 0x0400}, // largest subnormal + smallest subnormal = smallest normal
		{0x3c00, 0x0c00, 0x3c00}, // 1 + 2^-12 = 1 (below half)
		{0x3c00, 0x1000, 0x3c00}, // 1 + 2^-11 = 1 (tie to even)
		{0x3c01, 0x1000, 0x3c02}, // 1.0009765625 + 2^-11 (tie to even)
		{0x7bff, 0x5000, 0x7c00}, // overflow
		{0x7c00, 0xfc00, uvnan},  // inf - inf
		{0x7c00, 0x3c00, 0x7c00}, // inf + 1
		{0x3c00, 0xfc00, 0xfc00}, // 1 + -inf
	}
	for _, tt := range tests {
		got := tt.a.Add(tt.b)
		if got != tt.want && !(got.IsNaN() && tt.want.IsNaN()) {
			t.Errorf("%04x + %04x: expected %04x, got %04x", tt.a.Bits(), tt.b.Bits(), tt.want.Bits(), got.Bits())
		}
	}
}

func BenchmarkAdd(b *testing.B) {
	r := newXorshift32()
	for i := 0; i < b.N; i++ {
		x, y := r.Float16Pair()
		runtime.KeepAlive(x.Add(y))
	}
}

func FuzzAdd(f *testing.F) {
	f.Add(uint16(0x3c00), uint16(0x3c00))
	f.Add(uint16(0x7bff), uint16(0x7bff))
	f.Add(uint16(0x0001), uint16(0x8001))

	f.Fuzz(func(t *testing.T, a, b uint16) {
		fa := Float16(a)
		fb := Float16(b)
		fc := fa.Add(fb)

		// the float64 sum of two float16 values is exact
		want := FromFloat64(fa.Float64() + fb.Float64())
		if fc.IsNaN() && want.IsNaN() {
			return
		}
		if fc != want {
			t.Errorf("%x + %x: expected %x, got %x", fa.Float64(), fb.Float64(), want.Float64(), fc.Float64())
		}
	})
}
