// Package logging builds the zerolog loggers used by the command line tools.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Options selects how log lines are formatted and where they go.
type Options struct {
	// Level is one of: debug, info, warn, error, fatal, panic. Empty means info.
	Level string

	// Format is "console" or "json". Empty means console.
	Format string

	// File, if set, receives the log lines instead of stderr.
	File string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a logger. The returned Closer closes the log file, if one was opened.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	return newLogger(opts, &LogFileSystemImpl{}, os.Stderr)
}

func newLogger(opts Options, fs LogFileSystem, stderr io.Writer) (logger zerolog.Logger, closer io.Closer, err error) {
	closer = nopCloser{}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		level, err = zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			err = errors.Wrapf(err, "invalid log level %q", opts.Level)
			return
		}
	}

	var console bool
	switch strings.ToLower(opts.Format) {
	case "", "console":
		console = true
	case "json":
	default:
		err = errors.Errorf("unknown log format %q", opts.Format)
		return
	}

	var out io.Writer = stderr
	if opts.File != "" {
		if err = fs.MkDir(filepath.Dir(opts.File)); err != nil {
			err = errors.Wrapf(err, "failed to create the log directory for %s", opts.File)
			return
		}

		var f LogFile
		f, err = fs.Open(opts.File)
		if err != nil {
			err = errors.Wrapf(err, "failed to open log file %s", opts.File)
			return
		}
		out = f
		closer = f
	}

	if console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: opts.File != ""}
	}

	logger = zerolog.New(out).Level(level).With().Timestamp().Caller().Logger()
	return
}
