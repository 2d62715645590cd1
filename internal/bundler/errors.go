package bundler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEntrypoint is returned when the entrypoint does not lie under
// the project root.
var ErrInvalidEntrypoint = errors.New("entrypoint is not under the project root")

// ErrUnexpectedFilePath is returned when an asset path lies outside both
// the compiler root and the project root.
var ErrUnexpectedFilePath = errors.New("file path is outside known roots")

// UnexpectedFilePathError wraps ErrUnexpectedFilePath with the offending
// path for diagnostics.
type UnexpectedFilePathError struct {
	Path string
}

func (e *UnexpectedFilePathError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnexpectedFilePath, e.Path)
}

func (e *UnexpectedFilePathError) Unwrap() error {
	return ErrUnexpectedFilePath
}

// UnresolvedDependenciesError is returned when the closure loop drains the
// worklist with one or more specifiers left missing.
type UnresolvedDependenciesError struct {
	Specifiers []string
}

func (e *UnresolvedDependenciesError) Error() string {
	return fmt.Sprintf("unresolved dependencies: %s", strings.Join(e.Specifiers, ", "))
}

// ReadFailureError wraps a failed read of an external source file.
type ReadFailureError struct {
	Path string
	Err  error
}

func (e *ReadFailureError) Error() string {
	return fmt.Sprintf("read failure for %s: %v", e.Path, e.Err)
}

func (e *ReadFailureError) Unwrap() error {
	return e.Err
}
