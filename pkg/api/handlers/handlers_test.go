package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dirsnap/pkg/directory"
	"github.com/marmos91/dirsnap/pkg/scan"
)

type fakeScanner struct {
	result   *scan.Result
	err      error
	roots    []string
	rootsErr error

	gotOp   scan.Operation
	gotPath string
}

func (f *fakeScanner) Scan(_ context.Context, op scan.Operation, path string) (*scan.Result, error) {
	f.gotOp, f.gotPath = op, path
	return f.result, f.err
}

func (f *fakeScanner) Roots() []string { return f.roots }

func (f *fakeScanner) CheckRoots(context.Context) error { return f.rootsErr }

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestLiveness_ReturnsOK(t *testing.T) {
	w := httptest.NewRecorder()
	NewHealthHandler(nil).Liveness(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, map[string]interface{}{"service": "dirsnap"}, resp.Data)
}

func TestReadiness(t *testing.T) {
	t.Run("no scanner", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewHealthHandler(nil).Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", decode(t, w).Status)
	})

	t.Run("all roots healthy", func(t *testing.T) {
		w := httptest.NewRecorder()
		checker := &fakeScanner{roots: []string{"/srv", "/data"}}
		NewHealthHandler(checker).Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "healthy", resp.Status)
		data := resp.Data.(map[string]interface{})
		assert.Len(t, data["roots"], 2)
	})

	t.Run("one root failing", func(t *testing.T) {
		var merr *multierror.Error
		merr = multierror.Append(merr, &scan.RootError{Root: "/data", Err: fs.ErrNotExist})

		w := httptest.NewRecorder()
		checker := &fakeScanner{roots: []string{"/srv", "/data"}, rootsErr: merr.ErrorOrNil()}
		NewHealthHandler(checker).Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decode(t, w)
		data := resp.Data.(map[string]interface{})
		roots := data["roots"].([]interface{})
		require.Len(t, roots, 2)
		assert.Equal(t, "healthy", roots[0].(map[string]interface{})["status"])
		assert.Equal(t, "unhealthy", roots[1].(map[string]interface{})["status"])
		assert.Len(t, data["errors"], 1)
	})
}

func TestScanHandler_Success(t *testing.T) {
	scanner := &fakeScanner{result: &scan.Result{
		Path:      "/srv",
		Operation: scan.OperationNames,
		Entries:   []scan.Entry{{Name: "a"}, {Name: "b"}},
		Attempts:  1,
	}}

	w := httptest.NewRecorder()
	NewScanHandler(scanner).Names(w, httptest.NewRequest(http.MethodGet, "/api/v1/names?path=/srv", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, scan.OperationNames, scanner.gotOp)
	assert.Equal(t, "/srv", scanner.gotPath)

	resp := decode(t, w)
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]interface{})
	assert.Len(t, data["entries"], 2)
}

func TestScanHandler_Contents(t *testing.T) {
	scanner := &fakeScanner{result: &scan.Result{Operation: scan.OperationContents}}

	w := httptest.NewRecorder()
	NewScanHandler(scanner).Contents(w, httptest.NewRequest(http.MethodGet, "/api/v1/contents?path=/tmp", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, scan.OperationContents, scanner.gotOp)
}

func TestScanHandler_MissingPath(t *testing.T) {
	scanner := &fakeScanner{}

	w := httptest.NewRecorder()
	NewScanHandler(scanner).Names(w, httptest.NewRequest(http.MethodGet, "/api/v1/names", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "empty_path", decode(t, w).Code)
	assert.Empty(t, scanner.gotPath, "scanner must not be called")
}

func TestScanHandler_ErrorMapping(t *testing.T) {
	notDir := &directory.Error{Code: directory.OpenStreamFailure, Err: syscall.ENOTDIR}

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not allowed", fmt.Errorf("scan /etc: %w", scan.ErrPathNotAllowed), http.StatusForbidden, "path_not_allowed"},
		{"missing", &fs.PathError{Op: "open", Path: "/x", Err: syscall.ENOENT}, http.StatusNotFound, "not_found"},
		{"permission", &fs.PathError{Op: "open", Path: "/x", Err: syscall.EACCES}, http.StatusForbidden, "permission_denied"},
		{"not a directory", notDir, http.StatusBadRequest, "not_a_directory"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
		{"read failure", &directory.Error{Code: directory.ReadFailure, Err: syscall.EIO}, http.StatusInternalServerError, "read_failure"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewScanHandler(&fakeScanner{err: tt.err}).Names(w,
				httptest.NewRequest(http.MethodGet, "/api/v1/names?path=/x", nil))

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

// headerCounter counts WriteHeader calls reaching the underlying writer.
type headerCounter struct {
	*httptest.ResponseRecorder
	calls int
}

func (c *headerCounter) WriteHeader(status int) {
	c.calls++
	c.ResponseRecorder.WriteHeader(status)
}

func TestScanHandler_ExpiredRequestLeavesResponseToTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()

	w := &headerCounter{ResponseRecorder: httptest.NewRecorder()}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contents?path=/x", nil).WithContext(ctx)
	NewScanHandler(&fakeScanner{err: context.DeadlineExceeded}).Contents(w, req)

	assert.Zero(t, w.calls)
	assert.Zero(t, w.Body.Len())
}

func TestScanHandler_ScanTimeoutWithinRequest(t *testing.T) {
	w := &headerCounter{ResponseRecorder: httptest.NewRecorder()}
	NewScanHandler(&fakeScanner{err: fmt.Errorf("scan /x: %w", context.DeadlineExceeded)}).Names(w,
		httptest.NewRequest(http.MethodGet, "/api/v1/names?path=/x", nil))

	assert.Equal(t, 1, w.calls)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "timeout", decode(t, w.ResponseRecorder).Code)
}
