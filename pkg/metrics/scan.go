package metrics

import (
	"github.com/marmos91/dirsnap/pkg/scan"
)

// NewScanMetrics creates a Prometheus-backed scan.Metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called). A nil
// scan.Metrics passed to scan.New disables instrumentation.
//
//	metrics.InitRegistry()
//	scanner := scan.New(cfg, metrics.NewScanMetrics())
func NewScanMetrics() scan.Metrics {
	if !IsEnabled() || newPrometheusScanMetrics == nil {
		return nil
	}
	return newPrometheusScanMetrics()
}

// newPrometheusScanMetrics is set by pkg/metrics/prometheus. The
// indirection keeps this package free of the implementation import.
var newPrometheusScanMetrics func() scan.Metrics

// RegisterScanMetricsConstructor registers the Prometheus scan metrics constructor.
// Called by pkg/metrics/prometheus during package initialization.
func RegisterScanMetricsConstructor(constructor func() scan.Metrics) {
	newPrometheusScanMetrics = constructor
}
