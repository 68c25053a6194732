package multipattern

import (
	"sync"
)

// Database is the behaviour shared by BlockDatabase, VectorDatabase and StreamDatabase.
type Database interface {
	Mode() Mode
	Horizon() Horizon
	Platform() *PlatformInfo
	Len() int
	Fingerprint() string
	Size() (int, error)
	Handle() (Handle, error)
	Close() error
}

// database owns one compiled handle. It is immutable apart from being closed.
type database struct {
	handle      Handle
	mode        Mode
	horizon     Horizon
	platform    *PlatformInfo
	patterns    int
	fingerprint string

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// Mode returns the scanning mode the database was compiled for.
func (d *database) Mode() Mode { return d.mode }

// Horizon returns the horizon the database was compiled with.
func (d *database) Horizon() Horizon { return d.horizon }

// Platform returns the target platform, or nil if the database was compiled for the host.
func (d *database) Platform() *PlatformInfo {
	if d.platform == nil {
		return nil
	}
	p := *d.platform
	return &p
}

// Len returns the number of patterns the database was compiled from.
func (d *database) Len() int { return d.patterns }

// Fingerprint returns the fingerprint of the snapshot the database was compiled from.
func (d *database) Fingerprint() string { return d.fingerprint }

// Size returns the size of the compiled database in bytes.
func (d *database) Size() (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return 0, ErrClosed
	}
	return d.handle.Size()
}

// Handle returns the compiled handle for use by a scanner. The handle stays owned by the database.
func (d *database) Handle() (Handle, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, ErrClosed
	}
	return d.handle, nil
}

// Close releases the compiled handle. Only the first call releases; later calls return the first call's result.
func (d *database) Close() error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.closed = true
		d.closeErr = d.handle.Close()
	})
	return d.closeErr
}

// BlockDatabase is compiled for scanning single contiguous buffers.
type BlockDatabase struct {
	*database
}

// VectorDatabase is compiled for scanning ordered lists of buffers.
type VectorDatabase struct {
	*database
}

// StreamDatabase is compiled for scanning chunked streams.
type StreamDatabase struct {
	*database
}
