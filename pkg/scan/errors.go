package scan

import (
	"context"
	"errors"
	"io/fs"
	"syscall"

	"github.com/marmos91/dirsnap/pkg/directory"
)

var (
	// ErrEmptyPath is returned when no path is given.
	ErrEmptyPath = errors.New("path is required")

	// ErrPathNotAllowed is returned for paths outside every allowed root.
	ErrPathNotAllowed = errors.New("path is outside the allowed roots")
)

// RootError reports an allowed root that cannot be scanned.
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	return e.Root + ": " + e.Err.Error()
}

func (e *RootError) Unwrap() error { return e.Err }

// ErrorCode returns a stable snake_case identifier for err, suitable for
// metric labels and API responses. It returns "" for a nil error.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	switch directory.CodeOf(err) {
	case directory.DuplicateFailure:
		return "duplicate_failure"
	case directory.OpenStreamFailure:
		if directory.ErrnoOf(err) == syscall.ENOTDIR {
			return "not_a_directory"
		}
		return "open_stream_failure"
	case directory.ReadFailure:
		return "read_failure"
	case directory.AllocationFailure:
		return "allocation_failure"
	case directory.StatFailure:
		return "stat_failure"
	case directory.CloseFailure:
		return "close_failure"
	}

	switch {
	case errors.Is(err, ErrEmptyPath):
		return "empty_path"
	case errors.Is(err, ErrPathNotAllowed):
		return "path_not_allowed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, fs.ErrNotExist):
		return "not_found"
	case errors.Is(err, fs.ErrPermission):
		return "permission_denied"
	case errors.Is(err, syscall.ENOTDIR):
		return "not_a_directory"
	default:
		return "internal"
	}
}

// Retryable reports whether err is a transient condition worth another
// attempt.
func Retryable(err error) bool {
	if err == nil || directory.CodeOf(err) == directory.AllocationFailure {
		return false
	}
	switch directory.ErrnoOf(err) {
	case syscall.EINTR, syscall.EAGAIN, syscall.EMFILE, syscall.ENFILE, syscall.ENOMEM, syscall.ESTALE:
		return true
	}
	return false
}
