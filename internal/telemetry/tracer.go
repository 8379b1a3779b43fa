package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for scan spans.
const (
	AttrScanID        = "scan.id"
	AttrScanOperation = "scan.operation" // names or contents
	AttrScanPath      = "scan.path"
	AttrScanEntries   = "scan.entries"
	AttrScanVanished  = "scan.vanished"
	AttrScanAttempt   = "scan.attempt"
	AttrErrorCode     = "scan.error_code"
	AttrErrno         = "scan.errno"

	AttrHTTPRoute  = "http.route"
	AttrHTTPMethod = "http.method"
	AttrHTTPStatus = "http.status_code"
	AttrClientIP   = "client.ip"
)

// Span names.
const (
	SpanScan        = "scan"
	SpanScanAttempt = "scan.attempt"
	SpanAPIRequest  = "api.request"
)

func ScanID(id string) attribute.KeyValue {
	return attribute.String(AttrScanID, id)
}

func ScanOperation(op string) attribute.KeyValue {
	return attribute.String(AttrScanOperation, op)
}

func ScanPath(p string) attribute.KeyValue {
	return attribute.String(AttrScanPath, p)
}

func ScanEntries(n int) attribute.KeyValue {
	return attribute.Int(AttrScanEntries, n)
}

// ScanVanished records how many entries disappeared during the scan.
func ScanVanished(n int) attribute.KeyValue {
	return attribute.Int(AttrScanVanished, n)
}

func ScanAttempt(n int) attribute.KeyValue {
	return attribute.Int(AttrScanAttempt, n)
}

func ErrorCode(code string) attribute.KeyValue {
	return attribute.String(AttrErrorCode, code)
}

func Errno(n int) attribute.KeyValue {
	return attribute.Int(AttrErrno, n)
}

func HTTPRoute(route string) attribute.KeyValue {
	return attribute.String(AttrHTTPRoute, route)
}

func HTTPStatus(code int) attribute.KeyValue {
	return attribute.Int(AttrHTTPStatus, code)
}

// StartScanSpan starts the root span of a scan.
func StartScanSpan(ctx context.Context, id, operation, path string) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanScan,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			ScanID(id),
			ScanOperation(operation),
			ScanPath(path),
		),
	)
}

// StartAttemptSpan starts a child span for one attempt of a retried scan.
func StartAttemptSpan(ctx context.Context, attempt int) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanScanAttempt, trace.WithAttributes(ScanAttempt(attempt)))
}

// StartAPISpan starts a server span for an API request.
func StartAPISpan(ctx context.Context, method, route, clientIP string) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanAPIRequest,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String(AttrHTTPMethod, method),
			attribute.String(AttrHTTPRoute, route),
			attribute.String(AttrClientIP, clientIP),
		),
	)
}
