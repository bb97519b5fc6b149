// Package cpu reports the floating-point and vector extensions of the host
// processor. apdobsim prints them next to its version so that simulation
// traces and benchmark numbers from different machines can be told apart.
package cpu

import (
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sys/cpu"
)

// Features describes the host processor.
type Features struct {
	// Architecture is runtime.GOARCH.
	Architecture string
	// Extensions lists the detected extensions in table order.
	Extensions []string
}

// extension ties an extension name to its x/sys/cpu flag. x/sys/cpu declares
// the flags on every architecture and leaves foreign ones false.
type extension struct {
	arch string
	name string
	flag *bool
}

var extensions = []extension{
	{"amd64", "SSE2", &cpu.X86.HasSSE2},
	{"amd64", "AVX", &cpu.X86.HasAVX},
	{"amd64", "AVX2", &cpu.X86.HasAVX2},
	{"amd64", "FMA", &cpu.X86.HasFMA},
	{"amd64", "AVX-512", &cpu.X86.HasAVX512},
	{"arm64", "FP", &cpu.ARM64.HasFP},
	{"arm64", "ASIMD", &cpu.ARM64.HasASIMD},
}

var (
	detected   Features
	detectOnce sync.Once
)

// DetectFeatures returns the host features. Detection runs once.
func DetectFeatures() Features {
	detectOnce.Do(func() {
		detected = detect(runtime.GOARCH, extensions)
	})

	return Features{
		Architecture: detected.Architecture,
		Extensions:   slices.Clone(detected.Extensions),
	}
}

func detect(arch string, ps []extension) Features {
	f := Features{Architecture: arch}
	for _, p := range ps {
		if p.arch == arch && *p.flag {
			f.Extensions = append(f.Extensions, p.name)
		}
	}

	return f
}

// Has reports whether the named extension was detected.
func (f Features) Has(name string) bool {
	return slices.Contains(f.Extensions, name)
}

// String formats f as "arch (EXT, EXT)", or "arch (no extensions)".
func (f Features) String() string {
	arch := f.Architecture
	if arch == "" {
		arch = "unknown"
	}

	if len(f.Extensions) == 0 {
		return arch + " (no extensions)"
	}

	return arch + " (" + strings.Join(f.Extensions, ", ") + ")"
}
