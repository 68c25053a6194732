package multipattern

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// TuneFamily is the CPU microarchitecture a database is tuned for.
type TuneFamily uint

// Tuning families. The values match the native library's.
const (
	TuneGeneric TuneFamily = iota
	TuneSandyBridge
	TuneIvyBridge
	TuneHaswell
	TuneSilvermont
	TuneBroadwell
	TuneSkylake
	TuneSkylakeServer
	TuneGoldmont
	TuneIcelake
	TuneIcelakeServer
)

var tuneNames = []string{
	"generic",
	"sandybridge",
	"ivybridge",
	"haswell",
	"silvermont",
	"broadwell",
	"skylake",
	"skylakeserver",
	"goldmont",
	"icelake",
	"icelakeserver",
}

func (t TuneFamily) String() string {
	if int(t) < len(tuneNames) {
		return tuneNames[t]
	}
	return fmt.Sprintf("TuneFamily(%d)", uint(t))
}

// Known reports whether t is one of the defined tuning families.
func (t TuneFamily) Known() bool {
	return t <= TuneIcelakeServer
}

// ParseTuneFamily parses a tuning family name such as "haswell".
func ParseTuneFamily(s string) (TuneFamily, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	if n == "" {
		return TuneGeneric, nil
	}
	for i, name := range tuneNames {
		if name == n {
			return TuneFamily(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tune family %q", s)
}

// CPUFeature is a set of instruction-set extensions a database may use.
type CPUFeature uint64

// CPU features. The values match the native library's.
const (
	AVX2       CPUFeature = 1 << 2
	AVX512     CPUFeature = 1 << 3
	AVX512VBMI CPUFeature = 1 << 4

	knownFeatures = AVX2 | AVX512 | AVX512VBMI
)

var featureNames = []struct {
	feature CPUFeature
	name    string
}{
	{AVX2, "avx2"},
	{AVX512, "avx512"},
	{AVX512VBMI, "avx512vbmi"},
}

// Known reports whether f only contains defined feature bits.
func (f CPUFeature) Known() bool {
	return f&^knownFeatures == 0
}

func (f CPUFeature) String() string {
	if f == 0 {
		return "none"
	}

	var nn []string
	for _, fn := range featureNames {
		if f&fn.feature != 0 {
			nn = append(nn, fn.name)
		}
	}
	if rest := f &^ knownFeatures; rest != 0 {
		nn = append(nn, fmt.Sprintf("0x%x", uint64(rest)))
	}
	return strings.Join(nn, "|")
}

// ParseCPUFeature parses a feature name such as "avx2".
func ParseCPUFeature(s string) (CPUFeature, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	for _, fn := range featureNames {
		if fn.name == n {
			return fn.feature, nil
		}
	}
	return 0, fmt.Errorf("unknown cpu feature %q", s)
}

// PlatformInfo describes the machine a database is compiled for, when that is not the compiling host.
type PlatformInfo struct {
	Tune     TuneFamily
	Features CPUFeature

	// CacheLineSize is in bytes. Zero leaves the choice to the compiler.
	CacheLineSize int
}

// Check rejects descriptors no backend can compile for: unknown tuning families, unknown feature bits, and cache
// line sizes that are not a power of two between 16 and 256. The error is a CompileError without a pattern index.
func (p PlatformInfo) Check() error {
	var msg string
	switch {
	case !p.Features.Known():
		msg = "Invalid cpu features specified in the platform information."
	case !p.Tune.Known():
		msg = "Invalid tuning value specified in the platform information."
	case p.CacheLineSize != 0 && !validCacheLineSize(p.CacheLineSize):
		msg = fmt.Sprintf("Invalid cache line size %d specified in the platform information.", p.CacheLineSize)
	default:
		return nil
	}

	return NewCompileError(CodeCompilerError, msg, NoPatternIndex)
}

func validCacheLineSize(n int) bool {
	return n >= 16 && n <= 256 && n&(n-1) == 0
}

func (p PlatformInfo) String() string {
	return fmt.Sprintf("tune=%s features=%s cacheline=%d", p.Tune, p.Features, p.CacheLineSize)
}

// HostPlatform describes the CPU this process runs on. The tuning family is always TuneGeneric.
func HostPlatform() PlatformInfo {
	p := PlatformInfo{
		Tune:          TuneGeneric,
		CacheLineSize: int(unsafe.Sizeof(cpu.CacheLinePad{})),
	}

	if cpu.X86.HasAVX2 {
		p.Features |= AVX2
	}
	if cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW {
		p.Features |= AVX512
		if cpu.X86.HasAVX512VBMI {
			p.Features |= AVX512VBMI
		}
	}

	return p
}
