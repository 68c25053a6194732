package goregexp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsHexEscapedBytes(t *testing.T) {
	// Arrange
	type testcase struct {
		rx                 string
		hasHexEscapedBytes bool
	}
	tests := []testcase{
		{`xyz\xaaxyz`, true},
		{`xyz\xaAxyz`, true},
		{`xyz\xAaxyz`, true},
		{`xyz\x00xyz`, true},
		{`xyz\X00xyz`, false},
		{`xyz\\x00xyz`, false},
		{`xyz\\\x00xyz`, true},
		{`\\\x00xyz`, true},
		{`\\x00xyz`, false},
		{`\\\\x00xyz`, false},
		{`\\\\\x00xyz`, true},
	}

	for _, test := range tests {
		// Act and assert
		if containsHexEscapedBytes(test.rx) != test.hasHexEscapedBytes {
			t.Fatalf("Got unexpected containsHexEscapedBytes(test.rx) for %v", test.rx)
		}
	}
}

func TestFacadeChoosesEngine(t *testing.T) {
	assert := assert.New(t)

	text, err := compileRegexpFacade(`abc`, false)
	require.NoError(t, err)
	assert.NotNil(text.core)
	assert.Nil(text.bin)

	bin, err := compileRegexpFacade(`\xff\x00`, false)
	require.NoError(t, err)
	assert.Nil(bin.core)
	assert.NotNil(bin.bin)
	assert.True(bin.Match([]byte{'a', 0xff, 0x00, 'b'}))

	raw, err := compileRegexpFacade("a\x01b", false)
	require.NoError(t, err)
	assert.NotNil(raw.bin)
	assert.Equal([][]int{{1, 4}}, raw.FindAllIndex([]byte("xa\x01b"), -1))

	utf, err := compileRegexpFacade(`\x41`, true)
	require.NoError(t, err)
	assert.NotNil(utf.core)
	assert.True(utf.Match([]byte("A")))
}

func TestFacadeCompileError(t *testing.T) {
	_, err := compileRegexpFacade(`(abc`, false)
	assert.Error(t, err)

	_, err = compileRegexpFacade(`(\x00`, false)
	assert.Error(t, err)
}
