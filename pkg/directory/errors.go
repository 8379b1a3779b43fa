package directory

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrorCode identifies the stage of a directory read that failed.
type ErrorCode int

const (
	// DuplicateFailure indicates the caller's handle could not be duplicated.
	DuplicateFailure ErrorCode = iota + 1

	// OpenStreamFailure indicates a directory stream could not be opened
	// over the duplicated handle.
	OpenStreamFailure

	// ReadFailure indicates the OS reported an error while iterating the
	// directory stream.
	ReadFailure

	// AllocationFailure indicates the name sequence could not be grown.
	AllocationFailure

	// StatFailure indicates a metadata query failed with an error other
	// than "no such entry".
	StatFailure

	// CloseFailure indicates the directory stream could not be closed.
	CloseFailure
)

func (c ErrorCode) String() string {
	switch c {
	case DuplicateFailure:
		return "duplicate failure"
	case OpenStreamFailure:
		return "open stream failure"
	case ReadFailure:
		return "read failure"
	case AllocationFailure:
		return "allocation failure"
	case StatFailure:
		return "stat failure"
	case CloseFailure:
		return "close failure"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// Error makes ErrorCode usable as an errors.Is target.
func (c ErrorCode) Error() string {
	return c.String()
}

// Error is returned by every failed read. Err carries the underlying OS
// error, usually a syscall.Errno.
type Error struct {
	Code ErrorCode
	// Name is the entry being resolved when Code is StatFailure.
	Name string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Name != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Name, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	default:
		return e.Code.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same ErrorCode, so callers can write
// errors.Is(err, directory.StatFailure).
func (e *Error) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

// Errno returns the OS error code behind the failure, or 0 when the
// failure did not originate from a system call.
func (e *Error) Errno() syscall.Errno {
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		return errno
	}
	return 0
}

func newError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Err: err}
}

// CodeOf extracts the ErrorCode from err, returning 0 if err is not a
// directory error.
func CodeOf(err error) ErrorCode {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Code
	}
	return 0
}

// ErrnoOf extracts the OS error code from err, returning 0 if none.
func ErrnoOf(err error) syscall.Errno {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Errno()
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return 0
}
