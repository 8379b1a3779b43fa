package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/marmos91/dirsnap/internal/logger"
	"github.com/marmos91/dirsnap/pkg/scan"
)

// Scanner runs directory scans.
type Scanner interface {
	Scan(ctx context.Context, op scan.Operation, path string) (*scan.Result, error)
}

// ScanHandler serves directory listings.
type ScanHandler struct {
	scanner Scanner
}

// NewScanHandler creates a scan handler.
func NewScanHandler(scanner Scanner) *ScanHandler {
	return &ScanHandler{scanner: scanner}
}

// Names handles GET /api/v1/names?path=DIR.
func (h *ScanHandler) Names(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, scan.OperationNames)
}

// Contents handles GET /api/v1/contents?path=DIR.
func (h *ScanHandler) Contents(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, scan.OperationContents)
}

func (h *ScanHandler) serve(w http.ResponseWriter, r *http.Request, op scan.Operation) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("empty_path", "query parameter 'path' is required"))
		return
	}

	result, err := h.scanner.Scan(r.Context(), op, path)
	if err != nil {
		// The router's timeout middleware answers once the request
		// deadline has passed.
		if errors.Is(r.Context().Err(), context.DeadlineExceeded) {
			logger.WarnCtx(r.Context(), "Scan request timed out",
				logger.Path(path), logger.Err(err))
			return
		}
		code := scan.ErrorCode(err)
		status := StatusForCode(code)
		if status >= http.StatusInternalServerError {
			logger.ErrorCtx(r.Context(), "Scan request failed",
				logger.Path(path), logger.ErrorCode(code), logger.Err(err))
		}
		writeJSON(w, status, errorResponse(code, err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, okResponse(result))
}

// StatusForCode maps a scan error code to an HTTP status.
func StatusForCode(code string) int {
	switch code {
	case "empty_path", "not_a_directory":
		return http.StatusBadRequest
	case "path_not_allowed", "permission_denied":
		return http.StatusForbidden
	case "not_found":
		return http.StatusNotFound
	case "timeout":
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
