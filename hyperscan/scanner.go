//go:build cgo && hyperscan

package hyperscan

import (
	"fmt"

	"patterndb/multipattern"

	hs "github.com/flier/gohs/hyperscan"
)

// Match is one match reported by a scanner.
type Match struct {
	ID   uint
	From uint64
	To   uint64
}

// BlockScanner scans buffers against a block database. It is not safe for concurrent use; create one per goroutine.
type BlockScanner struct {
	db hs.BlockDatabase

	// Pre-allocated memory space that Hyperscan needs during evaluation
	scratch *hs.Scratch
}

// NewBlockScanner creates a BlockScanner. The database must have been built with this package's Compiler and must outlive the scanner.
func NewBlockScanner(d *multipattern.BlockDatabase) (s *BlockScanner, err error) {
	h, err := hyperscanHandle(d)
	if err != nil {
		return
	}
	if h == nil {
		s = &BlockScanner{}
		return
	}

	db, ok := h.BlockDatabase()
	if !ok {
		err = fmt.Errorf("database is not a Hyperscan block database")
		return
	}

	scratch, err := hs.NewScratch(db)
	if err != nil {
		return
	}

	s = &BlockScanner{db: db, scratch: scratch}
	return
}

// Scan scans the given input for all patterns of the database.
func (s *BlockScanner) Scan(input []byte) (matches []Match, err error) {
	matches = []Match{}
	if s.db == nil {
		return
	}
	handler := func(id uint, from, to uint64, flags uint, context interface{}) error {
		matches = append(matches, Match{ID: id, From: from, To: to})
		return nil
	}

	err = s.db.Scan(input, s.scratch, handler, nil)
	return
}

// Close frees the scratch space. The database is not closed.
func (s *BlockScanner) Close() error {
	if s.scratch == nil {
		return nil
	}
	return s.scratch.Free()
}

// VectorScanner scans lists of buffers against a vector database. It is not safe for concurrent use.
type VectorScanner struct {
	db      hs.VectoredDatabase
	scratch *hs.Scratch
}

// NewVectorScanner creates a VectorScanner. The database must outlive the scanner.
func NewVectorScanner(d *multipattern.VectorDatabase) (s *VectorScanner, err error) {
	h, err := hyperscanHandle(d)
	if err != nil {
		return
	}
	if h == nil {
		s = &VectorScanner{}
		return
	}

	db, ok := h.VectoredDatabase()
	if !ok {
		err = fmt.Errorf("database is not a Hyperscan vectored database")
		return
	}

	scratch, err := hs.NewScratch(db)
	if err != nil {
		return
	}

	s = &VectorScanner{db: db, scratch: scratch}
	return
}

// Scan scans the buffers as one logical input. Offsets count from the start of the first buffer.
func (s *VectorScanner) Scan(input [][]byte) (matches []Match, err error) {
	matches = []Match{}
	if s.db == nil {
		return
	}
	handler := func(id uint, from, to uint64, flags uint, context interface{}) error {
		matches = append(matches, Match{ID: id, From: from, To: to})
		return nil
	}

	err = s.db.Scan(input, s.scratch, handler, nil)
	return
}

// Close frees the scratch space. The database is not closed.
func (s *VectorScanner) Close() error {
	if s.scratch == nil {
		return nil
	}
	return s.scratch.Free()
}

// hyperscanHandle returns nil without error for a database built from no patterns.
func hyperscanHandle(d multipattern.Database) (*Handle, error) {
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
		return nil, fmt.Errorf("database was not compiled by Hyperscan but by %T", h)
	}
}
