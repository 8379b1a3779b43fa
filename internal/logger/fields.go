package logger

import (
	"log/slog"
)

// Standard field keys for structured logging. Use these keys consistently
// so scan logs can be aggregated and queried.
const (
	// Distributed tracing
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// Requests
	KeyRequestID = "request_id" // HTTP request ID or CLI invocation ID
	KeyClientIP  = "client_ip"
	KeyMethod    = "method"
	KeyRoute     = "route"
	KeyStatus    = "status"

	// Scans
	KeyScanID    = "scan_id"
	KeyOperation = "operation" // names or contents
	KeyPath      = "path"
	KeyFilename  = "filename"
	KeyEntries   = "entries"
	KeyVanished  = "vanished" // entries removed between listing and stat
	KeyRoot      = "root"

	// Errors and retries
	KeyError      = "error"
	KeyErrorCode  = "error_code"
	KeyErrno      = "errno"
	KeyAttempt    = "attempt"
	KeyMaxRetries = "max_retries"
	KeyBackoff    = "backoff"

	// Timing
	KeyDurationMs = "duration_ms"
	KeyTimeout    = "timeout"

	// Configuration
	KeyConfigFile = "config_file"
	KeyAddress    = "address"
)

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// Method returns a slog.Attr for the HTTP method
func Method(m string) slog.Attr {
	return slog.String(KeyMethod, m)
}

// Route returns a slog.Attr for the HTTP route
func Route(r string) slog.Attr {
	return slog.String(KeyRoute, r)
}

// Status returns a slog.Attr for an HTTP status code
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// ScanID returns a slog.Attr for the scan identifier
func ScanID(id string) slog.Attr {
	return slog.String(KeyScanID, id)
}

// Operation returns a slog.Attr for the scan operation
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Path returns a slog.Attr for a directory path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Filename returns a slog.Attr for a directory entry name
func Filename(name string) slog.Attr {
	return slog.String(KeyFilename, name)
}

// Entries returns a slog.Attr for the number of directory entries
func Entries(n int) slog.Attr {
	return slog.Int(KeyEntries, n)
}

// Vanished returns a slog.Attr for the number of vanished entries
func Vanished(n int) slog.Attr {
	return slog.Int(KeyVanished, n)
}

// Root returns a slog.Attr for an allowed scan root
func Root(p string) slog.Attr {
	return slog.String(KeyRoot, p)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a symbolic error code
func ErrorCode(code string) slog.Attr {
	return slog.String(KeyErrorCode, code)
}

// Errno returns a slog.Attr for an OS error number
func Errno(n int) slog.Attr {
	return slog.Int(KeyErrno, n)
}

// Attempt returns a slog.Attr for retry attempt number
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// MaxRetries returns a slog.Attr for maximum retry attempts
func MaxRetries(n int) slog.Attr {
	return slog.Int(KeyMaxRetries, n)
}

// Backoff returns a slog.Attr for the wait before the next attempt
func Backoff(d string) slog.Attr {
	return slog.String(KeyBackoff, d)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Timeout returns a slog.Attr for a configured timeout
func Timeout(d string) slog.Attr {
	return slog.String(KeyTimeout, d)
}

func ConfigFile(p string) slog.Attr {
	return slog.String(KeyConfigFile, p)
}

// Address returns a slog.Attr for a listen address
func Address(addr string) slog.Attr {
	return slog.String(KeyAddress, addr)
}
