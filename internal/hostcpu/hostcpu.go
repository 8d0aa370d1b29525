// Package hostcpu reports the capabilities of the host processor when it
// is used as a compute device.
package hostcpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Features describes the host processor.
type Features struct {
	Architecture string
	HasAVX2      bool
	HasAVX512    bool
	HasSSE2      bool
	HasNEON      bool
}

// Detect reports the available CPU features for the current process.
func Detect() Features {
	return Features{
		Architecture: runtime.GOARCH,
		HasAVX2:      cpu.X86.HasAVX2,
		HasAVX512:    cpu.X86.HasAVX512,
		HasSSE2:      cpu.X86.HasSSE2,
		HasNEON:      cpu.ARM64.HasASIMD,
	}
}

// List returns the detected feature names in a fixed order.
func (f Features) List() []string {
	var out []string
	if f.HasSSE2 {
		out = append(out, "sse2")
	}
	if f.HasAVX2 {
		out = append(out, "avx2")
	}
	if f.HasAVX512 {
		out = append(out, "avx512")
	}
	if f.HasNEON {
		out = append(out, "neon")
	}
	return out
}
