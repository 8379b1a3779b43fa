// Package prometheus implements the metrics interfaces on top of the
// registry managed by pkg/metrics. Import it for its side effect:
//
//	import _ "github.com/marmos91/dirsnap/pkg/metrics/prometheus"
package prometheus

import (
	"time"

	"github.com/marmos91/dirsnap/pkg/metrics"
	"github.com/marmos91/dirsnap/pkg/scan"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func init() {
	metrics.RegisterScanMetricsConstructor(NewScanMetrics)
	metrics.RegisterHTTPMetricsConstructor(NewHTTPMetrics)
}

// scanMetrics is the Prometheus implementation of scan.Metrics.
type scanMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	entries    *prometheus.HistogramVec
	vanished   *prometheus.CounterVec
	retries    *prometheus.CounterVec
}

// NewScanMetrics creates a new Prometheus-backed scan.Metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewScanMetrics() scan.Metrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &scanMetrics{
		operations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirsnap_scan_operations_total",
				Help: "Total number of directory scans by operation and outcome",
			},
			[]string{"operation", "status"}, // status: "success" or an error code
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "dirsnap_scan_duration_milliseconds",
				Help: "Duration of directory scans in milliseconds",
				Buckets: []float64{
					0.1,  // 100us - tiny directories
					0.5,  // 500us
					1,    // 1ms
					5,    // 5ms
					10,   // 10ms
					50,   // 50ms
					100,  // 100ms
					500,  // 500ms
					1000, // 1s
					5000, // 5s - huge or remote directories
				},
			},
			[]string{"operation"},
		),
		entries: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dirsnap_scan_entries",
				Help:    "Distribution of entries returned per scan",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10), // 1 .. 262144
			},
			[]string{"operation"},
		),
		vanished: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirsnap_scan_vanished_entries_total",
				Help: "Entries removed between enumeration and metadata query",
			},
			[]string{"operation"},
		),
		retries: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirsnap_scan_retries_total",
				Help: "Scan attempts retried after a transient failure",
			},
			[]string{"operation", "error_code"},
		),
	}
}

func (m *scanMetrics) ObserveScan(operation string, duration time.Duration, entries int, errorCode string) {
	if m == nil {
		return
	}
	status := "success"
	if errorCode != "" {
		status = errorCode
	}
	m.operations.WithLabelValues(operation, status).Inc()
	m.duration.WithLabelValues(operation).Observe(float64(duration.Microseconds()) / 1000.0)
	if errorCode == "" {
		m.entries.WithLabelValues(operation).Observe(float64(entries))
	}
}

func (m *scanMetrics) RecordVanished(operation string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.vanished.WithLabelValues(operation).Add(float64(count))
}

func (m *scanMetrics) RecordRetry(operation string, errorCode string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(operation, errorCode).Inc()
}
