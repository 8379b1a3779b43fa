package metrics

import "time"

// HTTPMetrics observes API requests. A nil HTTPMetrics disables collection.
type HTTPMetrics interface {
	// RecordRequest records a completed request.
	//
	// Parameters:
	//   - method: HTTP method
	//   - route: chi route pattern (e.g. "/api/v1/names")
	//   - status: response status code
	//   - duration: time spent serving the request
	RecordRequest(method, route string, status int, duration time.Duration)

	// RecordInFlight adjusts the number of requests being served.
	RecordInFlight(delta int)
}

// NewHTTPMetrics creates a Prometheus-backed HTTPMetrics instance, or nil
// if metrics are not enabled.
func NewHTTPMetrics() HTTPMetrics {
	if !IsEnabled() || newPrometheusHTTPMetrics == nil {
		return nil
	}
	return newPrometheusHTTPMetrics()
}

var newPrometheusHTTPMetrics func() HTTPMetrics

// RegisterHTTPMetricsConstructor registers the Prometheus HTTP metrics constructor.
func RegisterHTTPMetricsConstructor(constructor func() HTTPMetrics) {
	newPrometheusHTTPMetrics = constructor
}
