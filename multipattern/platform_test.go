package multipattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTuneFamily(t *testing.T) {
	type testcase struct {
		in       string
		expected TuneFamily
		ok       bool
	}
	tests := []testcase{
		{"", TuneGeneric, true},
		{"generic", TuneGeneric, true},
		{"Haswell", TuneHaswell, true},
		{"skylakeserver", TuneSkylakeServer, true},
		{"icelakeserver", TuneIcelakeServer, true},
		{"pentium4", 0, false},
	}

	for _, tc := range tests {
		tune, err := ParseTuneFamily(tc.in)
		if tc.ok {
			assert.NoError(t, err, tc.in)
			assert.Equal(t, tc.expected, tune, tc.in)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}

func TestTuneFamilyKnown(t *testing.T) {
	assert.True(t, TuneGoldmont.Known())
	assert.False(t, TuneFamily(11).Known())
	assert.Equal(t, "haswell", TuneHaswell.String())
	assert.Equal(t, "TuneFamily(42)", TuneFamily(42).String())
}

func TestCPUFeatures(t *testing.T) {
	assert := assert.New(t)

	f, err := ParseCPUFeature("AVX512")
	assert.NoError(err)
	assert.Equal(AVX512, f)
	_, err = ParseCPUFeature("sse2")
	assert.Error(err)

	assert.True((AVX2 | AVX512VBMI).Known())
	assert.False(CPUFeature(1).Known())
	assert.Equal("avx2|avx512", (AVX2 | AVX512).String())
	assert.Equal("none", CPUFeature(0).String())
}

func TestHostPlatform(t *testing.T) {
	p := HostPlatform()

	assert.Equal(t, TuneGeneric, p.Tune)
	assert.True(t, p.Features.Known())
	assert.Greater(t, p.CacheLineSize, 0)
}

func TestParseModeAndHorizon(t *testing.T) {
	assert := assert.New(t)

	m, err := ParseMode("Stream")
	assert.NoError(err)
	assert.Equal(Stream, m)
	m, err = ParseMode("vectored")
	assert.NoError(err)
	assert.Equal(Vector, m)
	_, err = ParseMode("chunked")
	assert.Error(err)

	h, err := ParseHorizon("")
	assert.NoError(err)
	assert.Equal(HorizonNone, h)
	h, err = ParseHorizon("LARGE")
	assert.NoError(err)
	assert.Equal(HorizonLarge, h)
	_, err = ParseHorizon("huge")
	assert.Error(err)

	assert.True(HorizonNone < HorizonSmall && HorizonSmall < HorizonMedium && HorizonMedium < HorizonLarge)
	assert.Equal("medium", HorizonMedium.String())
	assert.Equal("vector", Vector.String())
}

func TestPlatformCheck(t *testing.T) {
	type testcase struct {
		platform PlatformInfo
		ok       bool
	}
	tests := []testcase{
		{PlatformInfo{}, true},
		{HostPlatform(), true},
		{PlatformInfo{CacheLineSize: 64}, true},
		{PlatformInfo{CacheLineSize: 128}, true},
		{PlatformInfo{Tune: TuneIcelakeServer, Features: AVX2 | AVX512 | AVX512VBMI}, true},
		{PlatformInfo{CacheLineSize: 8}, false},
		{PlatformInfo{CacheLineSize: 96}, false},
		{PlatformInfo{CacheLineSize: 512}, false},
		{PlatformInfo{Tune: TuneFamily(11)}, false},
		{PlatformInfo{Features: CPUFeature(1)}, false},
	}

	for _, tc := range tests {
		err := tc.platform.Check()
		if tc.ok {
			assert.NoError(t, err, tc.platform.String())
			continue
		}

		var ce *CompileError
		if assert.ErrorAs(t, err, &ce, tc.platform.String()) {
			assert.Equal(t, CodeCompilerError, ce.Code)
			assert.Equal(t, NoPatternIndex, ce.PatternIndex)
		}
	}
}
