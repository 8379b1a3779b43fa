package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an error response returned by the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// IsNotFound reports whether the scanned path does not exist.
func (e *APIError) IsNotFound() bool {
	return e.Code == "not_found" || e.StatusCode == http.StatusNotFound
}

// IsForbidden reports whether the server refused to scan the path.
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsUnavailable reports whether the server answered with 503.
func (e *APIError) IsUnavailable() bool {
	return e.StatusCode == http.StatusServiceUnavailable
}

// ErrorCode returns the machine-readable code carried by err, or "".
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}
