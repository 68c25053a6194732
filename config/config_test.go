package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"patterndb/multipattern"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullDefinition = `
mode: stream
horizon: medium
platform:
  tune: haswell
  features: [avx2, avx512]
  cache_line_size: 64
patterns:
  - expr: abc
    id: 1
  - expr: d.f
    flags: [caseless, singlematch]
    id: 2
  - expr: 'x\d+'
    flag_bits: 32
    flags: [dotall]
    id: 2
`

func TestParseFullDefinition(t *testing.T) {
	assert := assert.New(t)

	// Act
	d, err := Parse([]byte(fullDefinition))

	// Assert
	require.NoError(t, err)
	mode, _ := d.ScanMode()
	assert.Equal(multipattern.Stream, mode)
	horizon, _ := d.ScanHorizon()
	assert.Equal(multipattern.HorizonMedium, horizon)

	p, err := d.TargetPlatform()
	require.NoError(t, err)
	assert.Equal(&multipattern.PlatformInfo{
		Tune:          multipattern.TuneHaswell,
		Features:      multipattern.AVX2 | multipattern.AVX512,
		CacheLineSize: 64,
	}, p)

	s, err := d.PatternSet()
	require.NoError(t, err)
	assert.Equal([]multipattern.Pattern{
		{Expression: "abc", Flags: 0, ID: 1},
		{Expression: "d.f", Flags: multipattern.Caseless | multipattern.SingleMatch, ID: 2},
		{Expression: `x\d+`, Flags: multipattern.UTF8 | multipattern.DotAll, ID: 2},
	}, s.Patterns())
}

func TestParseDefaults(t *testing.T) {
	d, err := Parse([]byte("patterns: []\n"))
	require.NoError(t, err)

	mode, _ := d.ScanMode()
	horizon, _ := d.ScanHorizon()
	p, err := d.TargetPlatform()
	assert.NoError(t, err)
	s, _ := d.PatternSet()

	assert.Equal(t, multipattern.Block, mode)
	assert.Equal(t, multipattern.HorizonNone, horizon)
	assert.Nil(t, p)
	assert.Equal(t, 0, s.Len())
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"mode: chunked\n",
		"horizon: huge\n",
		"platform:\n  tune: pentium\n",
		"platform:\n  features: [sse2]\n",
		"platform:\n  cache_line_size: -1\n",
		"patterns:\n  - expr: abc\n    flags: [loud]\n",
		"patterns: {",
	}

	for _, tc := range tests {
		_, err := Parse([]byte(tc))
		assert.Error(t, err, tc)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(fullDefinition), 0644))

	d, err := Load(path)

	require.NoError(t, err)
	assert.Len(t, d.Patterns, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
