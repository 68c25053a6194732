package testutils

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// NewTestLogger creates a zerolog.Logger at debug level that writes to the test's log.
func NewTestLogger(tb testing.TB) zerolog.Logger {
	return NewTestLoggerLevel(tb, zerolog.DebugLevel)
}

// NewTestLoggerLevel creates a zerolog.Logger at the given level that writes to the test's log.
func NewTestLoggerLevel(tb testing.TB, level zerolog.Level) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: testWriter{tb}, TimeFormat: time.RFC3339, NoColor: true}
	return zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()
}

type testWriter struct {
	tb testing.TB
}

func (tw testWriter) Write(p []byte) (n int, err error) {
	tw.tb.Helper()
	tw.tb.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}
