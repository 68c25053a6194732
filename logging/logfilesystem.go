package logging

import (
	"io"
	"os"
)

// LogFile is an open log file that log lines are appended to.
type LogFile interface {
	io.WriteCloser
}

// LogFileSystem is the interface to handle log file directory creation and file opening.
type LogFileSystem interface {
	MkDir(dirname string) error
	Open(name string) (f LogFile, err error)
}

// LogFileSystemImpl is the LogFileSystem of the real file system.
type LogFileSystemImpl struct {
}

// MkDir creates a directory named path, along with any necessary parents. If path is already a directory, MkDir does nothing.
func (fs *LogFileSystemImpl) MkDir(name string) error {
	return os.MkdirAll(name, 0755)
}

// Open opens the file for appending, creating it if it does not exist.
func (fs *LogFileSystemImpl) Open(name string) (LogFile, error) {
	return os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}
