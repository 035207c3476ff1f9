package checker

import (
	"fmt"

	"github.com/shogo82148/ulpcheck/format"
	"github.com/shogo82148/ulpcheck/rounding"
)

// MismatchError reports a candidate result that is neither the correctly
// rounded value nor within tolerance of it.
type MismatchError struct {
	Format    format.Format
	Mode      rounding.Mode
	Input     uint64
	Expected  uint64
	Actual    uint64
	ULPError  float64
	Tolerance float64
}

func (e *MismatchError) Error() string {
	f := e.Format
	return fmt.Sprintf(
		"%s %s: input %s (%g): expected %s (%g), got %s (%g): ulp error %g exceeds tolerance %g",
		f, e.Mode,
		f.Hex(e.Input), f.ToFloat64(e.Input),
		f.Hex(e.Expected), f.ToFloat64(e.Expected),
		f.Hex(e.Actual), f.ToFloat64(e.Actual),
		e.ULPError, e.Tolerance,
	)
}
