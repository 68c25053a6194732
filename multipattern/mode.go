package multipattern

import (
	"fmt"
	"strings"
)

// Mode is the scanning discipline a database is compiled for.
type Mode int

// Scanning modes.
const (
	// Block databases scan one contiguous buffer.
	Block Mode = iota + 1
	// Vector databases scan an ordered list of buffers as if they were one.
	Vector
	// Stream databases scan a sequence of chunks, carrying state between them.
	Stream
)

func (m Mode) String() string {
	switch m {
	case Block:
		return "block"
	case Vector:
		return "vector"
	case Stream:
		return "stream"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) valid() bool {
	return m == Block || m == Vector || m == Stream
}

// ParseMode parses "block", "vector" or "stream".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "block":
		return Block, nil
	case "vector", "vectored":
		return Vector, nil
	case "stream", "streaming":
		return Stream, nil
	}
	return 0, fmt.Errorf("unknown scanning mode %q", s)
}

// Horizon bounds how much start-of-match history a compiled database retains.
// Larger horizons report exact match starts for more patterns, at a memory and latency cost.
type Horizon int

// Horizons, in increasing order of retained history.
const (
	HorizonNone Horizon = iota
	HorizonSmall
	HorizonMedium
	HorizonLarge
)

func (h Horizon) String() string {
	switch h {
	case HorizonNone:
		return "none"
	case HorizonSmall:
		return "small"
	case HorizonMedium:
		return "medium"
	case HorizonLarge:
		return "large"
	default:
		return fmt.Sprintf("Horizon(%d)", int(h))
	}
}

func (h Horizon) valid() bool {
	return h >= HorizonNone && h <= HorizonLarge
}

// ParseHorizon parses "none", "small", "medium" or "large". The empty string is HorizonNone.
func ParseHorizon(s string) (Horizon, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return HorizonNone, nil
	case "small":
		return HorizonSmall, nil
	case "medium":
		return HorizonMedium, nil
	case "large":
		return HorizonLarge, nil
	}
	return 0, fmt.Errorf("unknown horizon %q", s)
}
