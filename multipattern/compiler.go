package multipattern

// Compiler turns a pattern snapshot into a compiled handle for one scanning mode.
// Implementations report rejected input as *CompileError and exhaustion as *ResourceError.
type Compiler interface {
	Compile(req CompileRequest) (Handle, error)
}

// CompileRequest is everything a Compiler needs for one build.
type CompileRequest struct {
	Patterns Snapshot
	Mode     Mode
	Horizon  Horizon

	// Platform is nil when compiling for the host.
	Platform *PlatformInfo
}

// Handle is a compiler-owned compiled artifact. Close releases it and is called exactly once.
type Handle interface {
	Mode() Mode
	Size() (int, error)
	Close() error
}

// EmptyHandle is the handle of a database built from no patterns. It matches nothing.
type EmptyHandle struct {
	mode Mode
}

// Mode returns the mode the empty database was built for.
func (h EmptyHandle) Mode() Mode { return h.mode }

// Size is always zero.
func (h EmptyHandle) Size() (int, error) { return 0, nil }

// Close does nothing.
func (h EmptyHandle) Close() error { return nil }
