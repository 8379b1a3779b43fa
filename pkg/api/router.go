package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/dirsnap/internal/logger"
	"github.com/marmos91/dirsnap/internal/telemetry"
	"github.com/marmos91/dirsnap/pkg/api/handlers"
	"github.com/marmos91/dirsnap/pkg/metrics"
)

// Scanner is the scan service the API exposes.
type Scanner interface {
	handlers.Scanner
	handlers.RootChecker
}

// NewRouter creates and configures the chi router with all middleware and routes.
//
// Middleware, outermost first:
//   - Request ID and real client IP
//   - Tracing, metrics and request logging
//   - Panic recovery
//   - Request timeout
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe (allowed roots are scannable)
//   - GET /api/v1/names?path= - Entry names of a directory
//   - GET /api/v1/contents?path= - Entries with metadata
//   - GET /metrics - Prometheus metrics (when enabled)
func NewRouter(cfg APIConfig, scanner Scanner, httpMetrics metrics.HTTPMetrics) http.Handler {
	cfg.applyDefaults()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(instrument(httpMetrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	healthHandler := handlers.NewHealthHandler(scanner)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	scanHandler := handlers.NewScanHandler(scanner)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/names", scanHandler.Names)
		r.Get("/contents", scanHandler.Contents)
	})

	if cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	return r
}

// instrument wraps each request in a server span, attaches a LogContext,
// records HTTP metrics and logs the request.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, route, status, duration
func instrument(httpMetrics metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := middleware.GetReqID(r.Context())

			ctx, span := telemetry.StartAPISpan(r.Context(), r.Method, r.URL.Path, r.RemoteAddr)
			defer span.End()

			lc := logger.NewLogContext(requestID).
				WithClient(r.RemoteAddr).
				WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
			ctx = logger.WithContext(ctx, lc)

			logger.DebugCtx(ctx, "API request started",
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)

			if httpMetrics != nil {
				httpMetrics.RecordInFlight(1)
				defer httpMetrics.RecordInFlight(-1)
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			duration := time.Since(start)

			telemetry.SetAttributes(ctx, telemetry.HTTPRoute(route), telemetry.HTTPStatus(status))
			if httpMetrics != nil {
				httpMetrics.RecordRequest(r.Method, route, status, duration)
			}

			logger.InfoCtx(ctx, "API request completed",
				logger.Method(r.Method),
				logger.Route(route),
				logger.Status(status),
				logger.DurationMs(float64(duration.Microseconds())/1000.0),
			)
		})
	}
}

// routePattern returns the matched chi pattern, keeping metric label
// cardinality bounded. Unmatched requests share one label.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
