package checker

import (
	"fmt"
	"iter"

	"github.com/shogo82148/int128"

	"github.com/shogo82148/ulpcheck/format"
)

// DefaultSamples is the sample count of the class-wide assertions.
const DefaultSamples = 1001

// order maps an encoding to a key that is monotonic in the value it encodes.
// -0 sorts just below +0, and the map is a bijection on the encodings.
func order(f format.Format, b uint64) uint64 {
	half := f.SignMask()
	mag := b &^ half
	if b&half != 0 {
		return half - 1 - mag
	}
	return half + mag
}

// unorder is the inverse of order.
func unorder(f format.Format, o uint64) uint64 {
	half := f.SignMask()
	if o >= half {
		return o - half
	}
	return half | (half - 1 - o)
}

// Samples returns count encodings of format f spaced evenly by value order
// from start to stop. stop is included unless exclusive is set.
// start may be greater than stop; the samples then run downward.
//
// Samples panics if count < 1, if an end point is NaN, or if the range
// is empty and count > 1.
func Samples(f format.Format, start, stop uint64, count int, exclusive bool) iter.Seq[uint64] {
	if count < 1 {
		panic(fmt.Sprintf("checker: invalid sample count %d", count))
	}
	if f.IsNaN(start) || f.IsNaN(stop) {
		panic(fmt.Sprintf("checker: NaN range bound %s..%s", f.Hex(start), f.Hex(stop)))
	}
	a, b := order(f, start), order(f, stop)
	if a == b && count > 1 {
		panic(fmt.Sprintf("checker: %d samples from the empty range %s..%s", count, f.Hex(start), f.Hex(stop)))
	}

	down := a > b
	var span uint64
	if down {
		span = a - b
	} else {
		span = b - a
	}
	den := uint64(count - 1)
	if exclusive {
		den = uint64(count)
	}

	return func(yield func(uint64) bool) {
		for i := 0; i < count; i++ {
			var step uint64
			if i > 0 {
				// span × i / den without overflow
				p := int128.Uint128{L: span}.Mul(int128.Uint128{L: uint64(i)})
				q, _ := p.DivMod(int128.Uint128{L: den})
				step = q.L
			}
			o := a + step
			if down {
				o = a - step
			}
			if !yield(unorder(f, o)) {
				return
			}
		}
	}
}
