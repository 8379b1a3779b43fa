package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/marmos91/dirsnap/pkg/scan"
)

// readinessTimeout bounds the root checks of one readiness probe.
const readinessTimeout = 5 * time.Second

// RootChecker verifies that the configured roots can be scanned.
type RootChecker interface {
	Roots() []string
	CheckRoots(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	checker RootChecker
}

// NewHealthHandler creates a new health handler. A nil checker makes the
// readiness probe fail.
func NewHealthHandler(checker RootChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Liveness handles GET /health.
//
// Returns 200 OK as long as the HTTP server is responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "dirsnap",
	}))
}

// RootHealth is the readiness status of one allowed root.
type RootHealth struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

// ReadinessResponse lists the checked roots.
type ReadinessResponse struct {
	Roots   []RootHealth `json:"roots"`
	Latency string       `json:"latency"`
	Errors  []string     `json:"errors,omitempty"`
}

// Readiness handles GET /health/ready.
//
// Returns 200 OK when every allowed root can be opened and enumerated,
// 503 Service Unavailable otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.checker == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("scanner not initialized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	start := time.Now()
	err := h.checker.CheckRoots(ctx)
	resp := ReadinessResponse{
		Roots:   make([]RootHealth, 0),
		Latency: time.Since(start).String(),
	}

	failed := make(map[string]bool)
	if err != nil {
		errs := []error{err}
		var merr *multierror.Error
		if errors.As(err, &merr) {
			errs = merr.WrappedErrors()
		}
		for _, e := range errs {
			resp.Errors = append(resp.Errors, e.Error())
			var rootErr *scan.RootError
			if errors.As(e, &rootErr) {
				failed[rootErr.Root] = true
			}
		}
	}

	for _, root := range h.checker.Roots() {
		status := "healthy"
		if failed[root] {
			status = "unhealthy"
		}
		resp.Roots = append(resp.Roots, RootHealth{Path: root, Status: status})
	}

	if err != nil {
		body := unhealthyResponse("one or more roots cannot be scanned")
		body.Data = resp
		writeJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	writeJSON(w, http.StatusOK, healthyResponse(resp))
}
