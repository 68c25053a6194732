package goregexp

import (
	"fmt"
	"sort"

	"patterndb/multipattern"
)

// MatchHandler is called for every match. Returning an error stops the scan, and Scan returns that error.
type MatchHandler func(id uint, from, to uint64) error

type compiledPattern struct {
	id    uint
	flags multipattern.Flag
	re    *regexpFacade
}

// Handle is a compiled set of Go regexps. It is immutable and safe for concurrent scanning.
type Handle struct {
	mode     multipattern.Mode
	patterns []compiledPattern
	size     int
}

// Mode returns the scanning mode the handle was compiled for.
func (h *Handle) Mode() multipattern.Mode { return h.mode }

// Size returns the total length of the compiled expressions.
func (h *Handle) Size() (int, error) { return h.size, nil }

// Close does nothing; the Go engines hold no foreign memory.
func (h *Handle) Close() error { return nil }

type match struct {
	idx  int
	from uint64
	to   uint64
}

// Scan scans one buffer. The handle must have been compiled for block mode.
// Matches are reported in order of end offset, then pattern position.
func (h *Handle) Scan(data []byte, handler MatchHandler) error {
	if h.mode != multipattern.Block {
		return fmt.Errorf("cannot block scan a %v database", h.mode)
	}
	return h.scan(data, handler)
}

// ScanVector scans the buffers as one logical input. The handle must have been compiled for vector mode.
// Offsets count from the start of the first buffer, and matches may span buffers.
func (h *Handle) ScanVector(data [][]byte, handler MatchHandler) error {
	if h.mode != multipattern.Vector {
		return fmt.Errorf("cannot vector scan a %v database", h.mode)
	}

	var n int
	for _, d := range data {
		n += len(d)
	}
	joined := make([]byte, 0, n)
	for _, d := range data {
		joined = append(joined, d...)
	}
	return h.scan(joined, handler)
}

func (h *Handle) scan(data []byte, handler MatchHandler) error {
	var mm []match
	for i, p := range h.patterns {
		if p.flags&multipattern.Quiet != 0 {
			continue
		}

		limit := -1
		if p.flags&multipattern.SingleMatch != 0 {
			limit = 1
		}

		for _, loc := range p.re.FindAllIndex(data, limit) {
			mm = append(mm, match{idx: i, from: uint64(loc[0]), to: uint64(loc[1])})
		}
	}

	sort.SliceStable(mm, func(i, j int) bool {
		if mm[i].to != mm[j].to {
			return mm[i].to < mm[j].to
		}
		return mm[i].idx < mm[j].idx
	})

	for _, m := range mm {
		if err := handler(h.patterns[m.idx].id, m.from, m.to); err != nil {
			return err
		}
	}
	return nil
}

// Scan scans data with the block database d. A database built from no patterns matches nothing.
func Scan(d *multipattern.BlockDatabase, data []byte, handler MatchHandler) error {
	h, err := goHandle(d)
	if err != nil || h == nil {
		return err
	}
	return h.Scan(data, handler)
}

// ScanVector scans data with the vector database d. A database built from no patterns matches nothing.
func ScanVector(d *multipattern.VectorDatabase, data [][]byte, handler MatchHandler) error {
	h, err := goHandle(d)
	if err != nil || h == nil {
		return err
	}
	return h.ScanVector(data, handler)
}

// goHandle returns nil without error for a database built from no patterns.
func goHandle(d multipattern.Database) (*Handle, error) {
	h, err := d.Handle()
	if err != nil {
		return nil, err
	}

	switch h := h.(type) {
	case *Handle:
		return h, nil
	case multipattern.EmptyHandle:
		return nil, nil
	default:
		return nil, fmt.Errorf("database was not compiled by the Go compiler but by %T", h)
	}
}
