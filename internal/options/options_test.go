package options

import (
	"flag"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/shogo82148/ulpcheck/format"
)

var environmentVariables = []string{
	"ULPCHECK_ALL_ROUNDING_MODES",
	"ULPCHECK_FORMATS",
	"ULPCHECK_SAMPLES",
	"ULPCHECK_TOLERANCE",
	"ULPCHECK_ENVIRONMENT",
	"ULPCHECK_LOG_LEVEL",
}

// unsetEnv makes sure the defaults are not affected by the caller's environment.
func unsetEnv(t *testing.T) {
	t.Helper()
	for _, key := range environmentVariables {
		t.Setenv(key, "") // restored on cleanup
		require.NoError(t, os.Unsetenv(key))
	}
}

var ignoreFlagSet = cmpopts.IgnoreFields(Options{}, "FlagSet")

func TestOptions_Defaults(t *testing.T) {
	unsetEnv(t)
	opts := New()
	require.NoError(t, opts.Parse(nil))
	require.NoError(t, opts.Validate())

	want := &Options{
		AllRoundingModes: false,
		Formats:          "all",
		Samples:          1001,
		Tolerance:        0,
		Environment:      SoftwareEnvironment,
		LogLevel:         "info",
	}
	if diff := cmp.Diff(want, opts, ignoreFlagSet); diff != "" {
		t.Errorf("Options mismatch (-want +got):\n%s", diff)
	}
}

func TestOptions_Flags(t *testing.T) {
	unsetEnv(t)
	opts := New()
	require.NoError(t, opts.Parse([]string{
		"-all-rounding-modes",
		"-formats=float16, bf16",
		"-samples=257",
		"-tolerance=0.5",
		"-environment=hardware",
		"-log-level=debug",
	}))
	require.NoError(t, opts.Validate())

	want := &Options{
		AllRoundingModes: true,
		Formats:          "float16, bf16",
		Samples:          257,
		Tolerance:        0.5,
		Environment:      HardwareEnvironment,
		LogLevel:         "debug",
	}
	if diff := cmp.Diff(want, opts, ignoreFlagSet); diff != "" {
		t.Errorf("Options mismatch (-want +got):\n%s", diff)
	}

	formats, err := opts.ParsedFormats()
	require.NoError(t, err)
	assert.Equal(t, []format.Format{format.Float16, format.BFloat16}, formats)

	level, err := opts.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)
}

func TestOptions_EnvironmentVariables(t *testing.T) {
	t.Setenv("ULPCHECK_ALL_ROUNDING_MODES", "true")
	t.Setenv("ULPCHECK_FORMATS", "float32")
	t.Setenv("ULPCHECK_SAMPLES", "11")
	t.Setenv("ULPCHECK_TOLERANCE", "1")
	t.Setenv("ULPCHECK_ENVIRONMENT", "hardware")
	t.Setenv("ULPCHECK_LOG_LEVEL", "warn")

	opts := New()
	require.NoError(t, opts.Parse(nil))
	require.NoError(t, opts.Validate())

	want := &Options{
		AllRoundingModes: true,
		Formats:          "float32",
		Samples:          11,
		Tolerance:        1,
		Environment:      HardwareEnvironment,
		LogLevel:         "warn",
	}
	if diff := cmp.Diff(want, opts, ignoreFlagSet); diff != "" {
		t.Errorf("Options mismatch (-want +got):\n%s", diff)
	}
}

func TestOptions_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("ULPCHECK_SAMPLES", "11")

	opts := New()
	require.NoError(t, opts.Parse([]string{"-samples=13"}))
	assert.Equal(t, 13, opts.Samples)
}

func TestOptions_Help(t *testing.T) {
	opts := New()
	opts.SetOutput(&discard{})
	assert.ErrorIs(t, opts.Parse([]string{"-help"}), flag.ErrHelp)
}

func TestOptions_Validate(t *testing.T) {
	opts := &Options{
		Formats:     "float16,float8",
		Samples:     0,
		Tolerance:   -1,
		Environment: "simulator",
		LogLevel:    "loud",
	}
	err := opts.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 5)
}

func TestOptions_ParsedFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []format.Format
		err  bool
	}{
		{in: "all", want: format.All},
		{in: " all ", want: format.All},
		{in: "float64", want: []format.Format{format.Float64}},
		{in: "double,single,half", want: []format.Format{format.Float64, format.Float32, format.Float16}},
		{in: "fp16,float16,,", want: []format.Format{format.Float16}},
		{in: "", err: true},
		{in: ",", err: true},
		{in: "float16,posit8", err: true},
	}

	for _, tt := range tests {
		opts := &Options{Formats: tt.in}
		got, err := opts.ParsedFormats()
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%q: ParsedFormats() mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
