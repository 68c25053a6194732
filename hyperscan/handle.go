//go:build cgo && hyperscan

package hyperscan

import (
	"fmt"

	"patterndb/multipattern"

	hs "github.com/flier/gohs/hyperscan"
)

// Handle is a compiled Hyperscan database owned by a multipattern database.
type Handle struct {
	mode multipattern.Mode
	db   hs.Database
}

func newHandle(mode multipattern.Mode, db hs.Database) (*Handle, error) {
	var ok bool
	switch mode {
	case multipattern.Block:
		_, ok = db.(hs.BlockDatabase)
	case multipattern.Vector:
		_, ok = db.(hs.VectoredDatabase)
	case multipattern.Stream:
		_, ok = db.(hs.StreamDatabase)
	}
	if !ok {
		return nil, multipattern.NewCompileError(multipattern.CodeCompilerError, fmt.Sprintf("Hyperscan returned a %T for a %v build", db, mode), multipattern.NoPatternIndex)
	}

	return &Handle{mode: mode, db: db}, nil
}

// Mode returns the scanning mode of the database.
func (h *Handle) Mode() multipattern.Mode { return h.mode }

// Size returns the size of the compiled database in bytes.
func (h *Handle) Size() (int, error) { return h.db.Size() }

// Close frees the Hyperscan database.
func (h *Handle) Close() error { return h.db.Close() }

// Info returns Hyperscan's version and platform description of the database.
func (h *Handle) Info() (string, error) {
	info, err := h.db.Info()
	if err != nil {
		return "", err
	}
	return fmt.Sprint(info), nil
}

// BlockDatabase returns the underlying block database, if the handle is one.
func (h *Handle) BlockDatabase() (hs.BlockDatabase, bool) {
	db, ok := h.db.(hs.BlockDatabase)
	return db, ok
}

// VectoredDatabase returns the underlying vectored database, if the handle is one.
func (h *Handle) VectoredDatabase() (hs.VectoredDatabase, bool) {
	db, ok := h.db.(hs.VectoredDatabase)
	return db, ok
}

// StreamDatabase returns the underlying stream database, if the handle is one.
func (h *Handle) StreamDatabase() (hs.StreamDatabase, bool) {
	db, ok := h.db.(hs.StreamDatabase)
	return db, ok
}
