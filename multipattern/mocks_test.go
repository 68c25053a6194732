package multipattern

import (
	"sync"
	"time"
)

type mockHandle struct {
	mode   Mode
	size   int
	closed int
	mu     sync.Mutex
}

func (h *mockHandle) Mode() Mode         { return h.mode }
func (h *mockHandle) Size() (int, error) { return h.size, nil }
func (h *mockHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed++
	return nil
}

func (h *mockHandle) closeCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

type mockCompiler struct {
	mu       sync.Mutex
	requests []CompileRequest
	handles  []*mockHandle

	// err is returned for every request whose mode is in failModes, or for every request if failModes is empty.
	err       error
	failModes []Mode

	// wrongMode makes the compiler return a handle of a different mode.
	wrongMode bool

	// release, when set, makes Compile block until it is closed. entered is signalled first.
	release chan struct{}
	entered chan struct{}
}

func (c *mockCompiler) Compile(req CompileRequest) (Handle, error) {
	if c.release != nil {
		if c.entered != nil {
			c.entered <- struct{}{}
		}
		<-c.release
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)

	if c.err != nil && c.fails(req.Mode) {
		return nil, c.err
	}

	mode := req.Mode
	if c.wrongMode {
		mode = Stream
		if req.Mode == Stream {
			mode = Block
		}
	}
	h := &mockHandle{mode: mode, size: 100 * req.Patterns.Len()}
	c.handles = append(c.handles, h)
	return h, nil
}

func (c *mockCompiler) fails(m Mode) bool {
	if len(c.failModes) == 0 {
		return true
	}
	for _, fm := range c.failModes {
		if fm == m {
			return true
		}
	}
	return false
}

func (c *mockCompiler) requestCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

type mockObserver struct {
	mu       sync.Mutex
	started  []Mode
	finished []error
}

func (o *mockObserver) BuildStarted(mode Mode, patterns int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, mode)
}

func (o *mockObserver) BuildFinished(mode Mode, patterns int, duration time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, err)
}
