package multipattern

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
)

// Snapshot is an immutable copy of a PatternSet's contents, taken when a build starts.
type Snapshot struct {
	patterns []Pattern
}

// Len returns the number of patterns.
func (s Snapshot) Len() int {
	return len(s.patterns)
}

// At returns the i-th pattern.
func (s Snapshot) At(i int) Pattern {
	return s.patterns[i]
}

// Patterns returns a copy of the patterns.
func (s Snapshot) Patterns() []Pattern {
	pp := make([]Pattern, len(s.patterns))
	copy(pp, s.patterns)
	return pp
}

// Expressions returns the expressions in order.
func (s Snapshot) Expressions() []string {
	ee := make([]string, len(s.patterns))
	for i, p := range s.patterns {
		ee[i] = p.Expression
	}
	return ee
}

// Flags returns the flags in order.
func (s Snapshot) Flags() []Flag {
	ff := make([]Flag, len(s.patterns))
	for i, p := range s.patterns {
		ff[i] = p.Flags
	}
	return ff
}

// Identifiers returns the identifiers in order.
func (s Snapshot) Identifiers() []uint {
	ii := make([]uint, len(s.patterns))
	for i, p := range s.patterns {
		ii[i] = p.ID
	}
	return ii
}

// Fingerprint returns a hex sha1 over the pattern count and each identifier, flag set and length-prefixed expression,
// in order. Equal fingerprints mean the snapshots compile to equivalent databases.
func (s Snapshot) Fingerprint() string {
	hash := sha1.New()
	binary.Write(hash, binary.BigEndian, uint64(len(s.patterns)))
	for _, p := range s.patterns {
		binary.Write(hash, binary.BigEndian, []uint64{uint64(p.ID), uint64(p.Flags), uint64(len(p.Expression))})
		hash.Write([]byte(p.Expression))
	}

	return hex.EncodeToString(hash.Sum(nil))
}
