package multipattern

import (
	"fmt"
	"math"
	"strings"
)

// Flag is a compile flag bit. Flags are forwarded to the compiler unchanged; the values match the native library's.
type Flag uint

// Compile flags understood by the compilers in this module.
const (
	Caseless    Flag = 1 << 0
	DotAll      Flag = 1 << 1
	MultiLine   Flag = 1 << 2
	SingleMatch Flag = 1 << 3
	AllowEmpty  Flag = 1 << 4
	UTF8        Flag = 1 << 5
	UCP         Flag = 1 << 6
	Prefilter   Flag = 1 << 7
	SomLeftMost Flag = 1 << 8
	Combination Flag = 1 << 9
	Quiet       Flag = 1 << 10
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{Caseless, "caseless"},
	{DotAll, "dotall"},
	{MultiLine, "multiline"},
	{SingleMatch, "singlematch"},
	{AllowEmpty, "allowempty"},
	{UTF8, "utf8"},
	{UCP, "ucp"},
	{Prefilter, "prefilter"},
	{SomLeftMost, "somleftmost"},
	{Combination, "combination"},
	{Quiet, "quiet"},
}

// ParseFlag returns the flag with the given name, such as "caseless".
func ParseFlag(name string) (Flag, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, f := range flagNames {
		if f.name == n {
			return f.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown pattern flag %q", name)
}

func (f Flag) String() string {
	if f == 0 {
		return "none"
	}

	var nn []string
	rest := f
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			nn = append(nn, fn.name)
			rest &^= fn.flag
		}
	}
	if rest != 0 {
		nn = append(nn, fmt.Sprintf("0x%x", uint(rest)))
	}
	return strings.Join(nn, "|")
}

// MaxPatternID is the largest identifier the compilers can report back at match time.
const MaxPatternID uint = math.MaxUint32

// Pattern is a regular expression together with its compile flags and the identifier reported when it matches.
type Pattern struct {
	Expression string
	Flags      Flag
	ID         uint
}

// PatternSet is an ordered, mutable list of patterns. Position is significant: compilers index patterns by it.
//
// A PatternSet is not safe for concurrent use.
type PatternSet struct {
	patterns []Pattern
}

// NewPatternSet creates an empty PatternSet.
func NewPatternSet() *PatternSet {
	return &PatternSet{}
}

// NewPatternSetFromSequences creates a PatternSet from three parallel sequences, which must be of equal length.
func NewPatternSetFromSequences(q Sequences) (s *PatternSet, err error) {
	snap, err := q.Snapshot()
	if err != nil {
		return
	}

	s = &PatternSet{patterns: snap.patterns}
	return
}

// AddPattern appends a pattern. The expression is not validated until a database is built.
func (s *PatternSet) AddPattern(expression string, flags Flag, identifier uint) {
	s.patterns = append(s.patterns, Pattern{Expression: expression, Flags: flags, ID: identifier})
}

// Clear removes all patterns. Databases built earlier are not affected.
func (s *PatternSet) Clear() {
	s.patterns = nil
}

// Len returns the number of patterns.
func (s *PatternSet) Len() int {
	return len(s.patterns)
}

// Patterns returns a copy of the patterns in insertion order.
func (s *PatternSet) Patterns() []Pattern {
	return s.Snapshot().Patterns()
}

// Expressions returns a copy of the expressions in insertion order.
func (s *PatternSet) Expressions() []string {
	return s.Snapshot().Expressions()
}

// Flags returns a copy of the flags in insertion order.
func (s *PatternSet) Flags() []Flag {
	return s.Snapshot().Flags()
}

// Identifiers returns a copy of the identifiers in insertion order.
func (s *PatternSet) Identifiers() []uint {
	return s.Snapshot().Identifiers()
}

// Snapshot takes an immutable copy of the current patterns.
func (s *PatternSet) Snapshot() Snapshot {
	pp := make([]Pattern, len(s.patterns))
	copy(pp, s.patterns)
	return Snapshot{patterns: pp}
}

// Sequences is the parallel-sequence form of a pattern list, as found in external data.
type Sequences struct {
	Expressions []string
	Flags       []Flag
	Identifiers []uint
}

// Validate returns a *ShapeError if the three sequences differ in length.
func (q Sequences) Validate() error {
	if len(q.Expressions) != len(q.Flags) || len(q.Expressions) != len(q.Identifiers) {
		return &ShapeError{
			Expressions: len(q.Expressions),
			Flags:       len(q.Flags),
			Identifiers: len(q.Identifiers),
		}
	}
	return nil
}

// Snapshot validates the sequences and zips them into a Snapshot.
func (q Sequences) Snapshot() (Snapshot, error) {
	if err := q.Validate(); err != nil {
		return Snapshot{}, err
	}

	pp := make([]Pattern, len(q.Expressions))
	for i := range q.Expressions {
		pp[i] = Pattern{Expression: q.Expressions[i], Flags: q.Flags[i], ID: q.Identifiers[i]}
	}
	return Snapshot{patterns: pp}, nil
}
