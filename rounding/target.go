package rounding

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// Target describes the execution target, for diagnostics.
// It names the architecture and the native floating-point
// extensions that affect narrow formats.
func Target() string {
	var b strings.Builder
	b.WriteString(runtime.GOOS)
	b.WriteByte('/')
	b.WriteString(runtime.GOARCH)
	for _, f := range features() {
		b.WriteByte('+')
		b.WriteString(f)
	}
	return b.String()
}

func features() []string {
	var ret []string
	switch runtime.GOARCH {
	case "amd64", "386":
		if cpu.X86.HasAVX {
			ret = append(ret, "avx")
		}
		if cpu.X86.HasFMA {
			ret = append(ret, "fma")
		}
		if cpu.X86.HasAVX512 {
			ret = append(ret, "avx512")
		}
		if cpu.X86.HasAVX512BF16 {
			ret = append(ret, "avx512bf16")
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			ret = append(ret, "asimd")
		}
		if cpu.ARM64.HasFPHP {
			ret = append(ret, "fphp")
		}
		if cpu.ARM64.HasASIMDHP {
			ret = append(ret, "asimdhp")
		}
		if cpu.ARM64.HasSVE {
			ret = append(ret, "sve")
		}
	}
	return ret
}

// NativeFormats reports which 16-bit formats the host can compute in hardware.
// The harness itself always uses the software float16 and bfloat16
// arithmetic; the report helps to explain results on other targets.
func NativeFormats() (float16, bfloat16 bool) {
	switch runtime.GOARCH {
	case "amd64", "386":
		return false, cpu.X86.HasAVX512BF16
	case "arm64":
		return cpu.ARM64.HasFPHP, false
	}
	return false, false
}
