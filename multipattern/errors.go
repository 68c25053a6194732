package multipattern

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when a closed database is used.
var ErrClosed = errors.New("database is closed")

// Error codes carried by CompileError. The values match the native library's.
const (
	CodeInvalid       = -1
	CodeNoMemory      = -3
	CodeCompilerError = -4
	CodeArchError     = -11
)

// NoPatternIndex is the PatternIndex of a CompileError that is not attributable to a single pattern.
const NoPatternIndex = -1

// ShapeError is returned when parallel pattern sequences have different lengths.
type ShapeError struct {
	Expressions int
	Flags       int
	Identifiers int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("pattern sequences differ in length: %d expressions, %d flags, %d identifiers", e.Expressions, e.Flags, e.Identifiers)
}

// CompileError is returned when the compiler rejects the patterns, their flags, the mode or the platform.
type CompileError struct {
	Code    int
	Message string

	// PatternIndex is the position of the offending pattern, or NoPatternIndex.
	PatternIndex int
}

// NewCompileError creates a CompileError. Pass NoPatternIndex when no single pattern is at fault.
func NewCompileError(code int, message string, patternIndex int) *CompileError {
	return &CompileError{Code: code, Message: message, PatternIndex: patternIndex}
}

// Index returns the offending pattern's position, if known.
func (e *CompileError) Index() (int, bool) {
	return e.PatternIndex, e.PatternIndex >= 0
}

func (e *CompileError) Error() string {
	if e.PatternIndex >= 0 {
		return fmt.Sprintf("compile error %d at pattern %d: %s", e.Code, e.PatternIndex, e.Message)
	}
	return fmt.Sprintf("compile error %d: %s", e.Code, e.Message)
}

// ResourceError is returned when memory or another resource ran out while compiling.
type ResourceError struct {
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("out of resources while compiling: %v", e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// asBuildError passes the typed errors of this package through and turns anything else into a CompileError.
func asBuildError(err error) error {
	var ce *CompileError
	var re *ResourceError
	var se *ShapeError
	if errors.As(err, &ce) || errors.As(err, &re) || errors.As(err, &se) {
		return err
	}
	return NewCompileError(CodeCompilerError, err.Error(), NoPatternIndex)
}
