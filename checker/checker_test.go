package checker

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shogo82148/ulpcheck/bfloat16"
	"github.com/shogo82148/ulpcheck/float16"
	"github.com/shogo82148/ulpcheck/oracle"
	"github.com/shogo82148/ulpcheck/rounding"
)

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// sqrt32Off returns a square root that is one ulp too large at 4.
func sqrt32Off(x float32) float32 {
	if x == 4 {
		return math.Nextafter32(2, float32(math.Inf(1)))
	}
	return sqrt32(x)
}

func TestChecker_PerfectSqrt(t *testing.T) {
	c, err := New(rounding.NewSoftware(), oracle.Sqrt, sqrt32, rounding.NearestEven)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.AssertSpecialValues())
	require.NoError(t, c.AssertPositiveNormals(1001))
	require.NoError(t, c.AssertPositiveSubnormals(0))
	require.NoError(t, c.AssertNegativeNormals(101))

	stats := c.Stats()
	assert.Equal(t, 5+1001+DefaultSamples+101, stats.Checked)
	assert.Zero(t, stats.Mismatches)
	assert.Zero(t, stats.WorstULPError)
}

func TestChecker_OneWrongResult(t *testing.T) {
	c, err := New(rounding.NewSoftware(), oracle.Sqrt, sqrt32Off, rounding.NearestEven)
	require.NoError(t, err)
	defer c.Close()

	// 2 to 8 in 257 steps passes through 4
	err = c.CollectRange(2, 8, 257)
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 1)

	var mismatch *MismatchError
	require.True(t, errors.As(errs[0], &mismatch))
	assert.Equal(t, uint64(0x40800000), mismatch.Input)
	assert.Equal(t, uint64(0x40000000), mismatch.Expected)
	assert.Equal(t, uint64(0x40000001), mismatch.Actual)
	assert.Equal(t, 1.0, mismatch.ULPError)
	assert.Zero(t, mismatch.Tolerance)
	assert.Contains(t, mismatch.Error(), "0x40800000")
	assert.Contains(t, mismatch.Error(), "float32 nearest")

	// the fail-fast form reports the same mismatch
	err = c.AssertRange(2, 8, 257)
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, uint64(0x40800000), mismatch.Input)

	// and a tolerance of one ulp accepts it
	assert.NoError(t, c.AssertRange(2, 8, 257, Tolerance(1)))
	assert.NoError(t, c.AssertMatch(4, Tolerance(1)))
	assert.Error(t, c.AssertMatch(4))
}

func TestChecker_DefaultTolerance(t *testing.T) {
	c, err := New(rounding.NewSoftware(), oracle.Sqrt, sqrt32Off, rounding.NearestEven, WithTolerance(1))
	require.NoError(t, err)
	defer c.Close()

	m := c.Check(4)
	assert.True(t, m.OK)
	assert.Equal(t, float32(2), m.Expected)
	assert.Equal(t, 1.0, m.ULPError)
	assert.Equal(t, 1.0, m.Tolerance)

	assert.Equal(t, 1, c.Stats().WithinTolerance)
	assert.Equal(t, uint64(0x40800000), c.Stats().WorstInput)
}

func TestChecker_DirectedMode(t *testing.T) {
	// the candidate always rounds to nearest, so under upward rounding
	// it is wrong by less than one ulp wherever the root is inexact
	c, err := New(rounding.NewSoftware(), oracle.Sqrt, sqrt32, rounding.Upward)
	require.NoError(t, err)
	defer c.Close()

	assert.Error(t, c.AssertMatch(2))
	assert.NoError(t, c.AssertMatch(4))
	assert.NoError(t, c.CollectRange(1, 4, 1001, Tolerance(1)))
	assert.Less(t, c.Stats().WorstULPError, 1.0)
}

func TestChecker_Float16Exhaustive(t *testing.T) {
	c, err := New(rounding.NewSoftware(), oracle.Sqrt, float16.Float16.Sqrt, rounding.NearestEven)
	require.NoError(t, err)
	defer c.Close()

	// every encoding from -Inf to +Inf
	require.NoError(t, c.CollectRange(float16.FromBits(0xfc00), float16.FromBits(0x7c00), 0xf802))
	assert.Equal(t, 0xf802, c.Stats().Checked)
	assert.Zero(t, c.Stats().Mismatches)
}

func TestChecker_BFloat16Exhaustive(t *testing.T) {
	c, err := New(rounding.NewSoftware(), oracle.Sqrt, bfloat16.BFloat16.Sqrt, rounding.NearestEven)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.AssertSpecialValues())
	require.NoError(t, c.CollectRange(bfloat16.FromBits(0x0000), bfloat16.FromBits(0x7f80), 0x7f81))
	require.NoError(t, c.AssertNegativeSubnormals(0))
	assert.Zero(t, c.Stats().Mismatches)
}

func TestChecker_ModeRefused(t *testing.T) {
	env := &fixedEnv{}
	_, err := New(env, oracle.Sqrt, sqrt32, rounding.Upward)
	require.Error(t, err)
	assert.ErrorIs(t, err, rounding.ErrModeRefused)
}

func TestChecker_ScopeRestored(t *testing.T) {
	env := rounding.NewSoftware()
	c, err := New(env, oracle.Sqrt, sqrt32, rounding.Downward)
	require.NoError(t, err)
	assert.Equal(t, rounding.Downward, env.Mode())

	c.Close()
	assert.Equal(t, rounding.NearestEven, env.Mode())
	c.Close() // no effect

	assert.Panics(t, func() { c.Check(1) })
}

func TestChecker_UnsupportedPrecision(t *testing.T) {
	lib := oracle.MustOpen(128)
	defer lib.Close()

	_, err := New(rounding.NewSoftware(), oracle.Sqrt, math.Sqrt, rounding.NearestEven, WithLibrary(lib))
	assert.Error(t, err)
}

func TestChecker_ClosedLibrary(t *testing.T) {
	lib := oracle.MustOpen(128)
	require.NoError(t, lib.Close())

	env := rounding.NewSoftware()
	_, err := New(env, oracle.Sqrt, sqrt32, rounding.Upward, WithLibrary(lib))
	require.Error(t, err)
	assert.ErrorIs(t, err, oracle.ErrClosed)
	assert.Equal(t, rounding.NearestEven, env.Mode(), "the mode is not entered")
}

func TestChecker_RefusedReturnsScratch(t *testing.T) {
	lib := oracle.MustOpen(128)
	defer lib.Close()

	_, err := New(fixedEnv{}, oracle.Sqrt, sqrt32, rounding.Upward, WithLibrary(lib))
	require.ErrorIs(t, err, rounding.ErrModeRefused)

	// the library stays usable after the refused construction
	c, err := New(fixedEnv{}, oracle.Sqrt, sqrt32, rounding.NearestEven, WithLibrary(lib))
	require.NoError(t, err)
	defer c.Close()
	assert.NoError(t, c.AssertMatch(4))
}

func TestChecker_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c, err := New(rounding.NewSoftware(), oracle.Sqrt, sqrt32Off, rounding.NearestEven, WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.Error(t, c.AssertMatch(4))
	c.Close()

	mismatches := logs.FilterMessage("mismatch").All()
	require.Len(t, mismatches, 1)
	assert.Equal(t, "0x40800000", mismatches[0].ContextMap()["input"])
	assert.Equal(t, "float32", mismatches[0].ContextMap()["format"])

	closed := logs.FilterMessage("checker closed").All()
	require.Len(t, closed, 1)
	assert.EqualValues(t, 1, closed[0].ContextMap()["mismatches"])
}

func TestChecker_Float64(t *testing.T) {
	c, err := New(rounding.NewSoftware(), oracle.Sqrt, math.Sqrt, rounding.NearestEven)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.AssertSpecialValues())
	require.NoError(t, c.AssertPositiveNormals(0))
	require.NoError(t, c.AssertPositiveSubnormals(257))
	require.NoError(t, c.AssertRange(math.Inf(-1), math.Copysign(0, -1), 17), "negative inputs give NaN")
}

// fixedEnv is an Environment stuck in NearestEven.
type fixedEnv struct{}

func (fixedEnv) Mode() rounding.Mode { return rounding.NearestEven }

func (fixedEnv) SetMode(mode rounding.Mode) bool { return mode == rounding.NearestEven }
