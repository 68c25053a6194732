package multipattern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPatternPreservesOrder(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	type testcase struct {
		expr  string
		flags Flag
		id    uint
	}
	tests := []testcase{
		{"abc", 0, 1},
		{"d.f", Caseless, 2},
		{"abc", SingleMatch | DotAll, 1},
		{`\x00+`, 0, 7},
	}
	s := NewPatternSet()

	// Act
	for _, tc := range tests {
		s.AddPattern(tc.expr, tc.flags, tc.id)
	}

	// Assert
	assert.Equal(len(tests), s.Len())
	assert.Len(s.Expressions(), len(tests))
	assert.Len(s.Flags(), len(tests))
	assert.Len(s.Identifiers(), len(tests))
	for i, tc := range tests {
		assert.Equal(tc.expr, s.Expressions()[i])
		assert.Equal(tc.flags, s.Flags()[i])
		assert.Equal(tc.id, s.Identifiers()[i])
		assert.Equal(Pattern{Expression: tc.expr, Flags: tc.flags, ID: tc.id}, s.Patterns()[i])
	}
}

func TestClearEmptiesEverything(t *testing.T) {
	assert := assert.New(t)

	s := NewPatternSet()
	s.AddPattern("a", 0, 1)
	s.AddPattern("b", Caseless, 2)

	s.Clear()

	assert.Equal(0, s.Len())
	assert.Empty(s.Expressions())
	assert.Empty(s.Flags())
	assert.Empty(s.Identifiers())
	assert.Empty(s.Patterns())

	// Clearing an empty set is fine too.
	s.Clear()
	assert.Equal(0, s.Len())
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := NewPatternSet()
	s.AddPattern("a", 0, 1)

	ee := s.Expressions()
	ee[0] = "changed"
	pp := s.Patterns()
	pp[0].ID = 99

	assert.Equal(t, "a", s.Expressions()[0])
	assert.Equal(t, uint(1), s.Identifiers()[0])
}

func TestSnapshotIsolation(t *testing.T) {
	assert := assert.New(t)

	s := NewPatternSet()
	s.AddPattern("a", 0, 1)
	snap := s.Snapshot()
	fp := snap.Fingerprint()

	s.Clear()
	s.AddPattern("b", Caseless, 2)
	s.AddPattern("c", 0, 3)

	assert.Equal(1, snap.Len())
	assert.Equal(Pattern{Expression: "a", ID: 1}, snap.At(0))
	assert.Equal(fp, snap.Fingerprint())
}

func TestNewPatternSetFromSequences(t *testing.T) {
	s, err := NewPatternSetFromSequences(Sequences{
		Expressions: []string{"a", "b"},
		Flags:       []Flag{0, Caseless},
		Identifiers: []uint{10, 20},
	})
	require.NoError(t, err)

	assert.Equal(t, []Pattern{{"a", 0, 10}, {"b", Caseless, 20}}, s.Patterns())
}

func TestNewPatternSetFromSequencesShapeError(t *testing.T) {
	type testcase struct {
		q Sequences
	}
	tests := []testcase{
		{Sequences{Expressions: []string{"a"}, Flags: []Flag{}, Identifiers: []uint{1}}},
		{Sequences{Expressions: []string{"a"}, Flags: []Flag{0}, Identifiers: nil}},
		{Sequences{Expressions: nil, Flags: []Flag{0}, Identifiers: []uint{1}}},
	}

	for _, tc := range tests {
		s, err := NewPatternSetFromSequences(tc.q)

		assert.Nil(t, s)
		var se *ShapeError
		if !errors.As(err, &se) {
			t.Fatalf("Expected ShapeError, got %v", err)
		}
		assert.Equal(t, len(tc.q.Expressions), se.Expressions)
		assert.Equal(t, len(tc.q.Flags), se.Flags)
		assert.Equal(t, len(tc.q.Identifiers), se.Identifiers)
	}
}

func TestFingerprint(t *testing.T) {
	assert := assert.New(t)

	a := NewPatternSet()
	a.AddPattern("abc", 0, 1)
	a.AddPattern("def", Caseless, 2)
	b := NewPatternSet()
	b.AddPattern("abc", 0, 1)
	b.AddPattern("def", Caseless, 2)
	c := NewPatternSet()
	c.AddPattern("def", Caseless, 2)
	c.AddPattern("abc", 0, 1)
	d := NewPatternSet()
	d.AddPattern("abc", 0, 1)
	d.AddPattern("def", 0, 2)

	assert.Equal(a.Snapshot().Fingerprint(), b.Snapshot().Fingerprint())
	assert.NotEqual(a.Snapshot().Fingerprint(), c.Snapshot().Fingerprint())
	assert.NotEqual(a.Snapshot().Fingerprint(), d.Snapshot().Fingerprint())
	assert.Len(a.Snapshot().Fingerprint(), 40)
}

func TestFingerprintExpressionsWithNUL(t *testing.T) {
	one := NewPatternSet()
	one.AddPattern("x\x000\x001\x00y", 0, 1)
	two := NewPatternSet()
	two.AddPattern("x", 0, 1)
	two.AddPattern("y", 0, 1)
	split := NewPatternSet()
	split.AddPattern("ab", 0, 1)
	joined := NewPatternSet()
	joined.AddPattern("a", 0, 1)
	joined.AddPattern("b", 0, 1)

	assert.NotEqual(t, one.Snapshot().Fingerprint(), two.Snapshot().Fingerprint())
	assert.NotEqual(t, split.Snapshot().Fingerprint(), joined.Snapshot().Fingerprint())
}

func TestFlagNames(t *testing.T) {
	assert := assert.New(t)

	f, err := ParseFlag(" Caseless ")
	assert.NoError(err)
	assert.Equal(Caseless, f)

	_, err = ParseFlag("bogus")
	assert.Error(err)

	assert.Equal("none", Flag(0).String())
	assert.Equal("caseless|singlematch", (Caseless | SingleMatch).String())
	assert.Equal("dotall|0x800", (DotAll | Flag(1<<11)).String())
}
