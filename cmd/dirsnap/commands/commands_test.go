//go:build linux || darwin

package commands

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dirsnap/internal/cli/output"
	"github.com/marmos91/dirsnap/pkg/api"
	"github.com/marmos91/dirsnap/pkg/scan"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DIRSNAP_LOGGING_LEVEL", "ERROR")

	namesOpts = listOptions{format: output.FormatTable, sortBy: "none"}
	lsOpts = listOptions{format: output.FormatTable, sortBy: "none"}
	statusOpts.server, statusOpts.format, statusOpts.timeout = "", output.FormatTable, 5*time.Second

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cfgFile = ""
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func populate(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
	return dir
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestNames_SortedTable(t *testing.T) {
	dir := populate(t, "c", "a", "b")

	out, err := execute(t, "names", dir, "--sort", "name")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "NAME", strings.TrimSpace(lines[0]))
	assert.Equal(t, []string{"a", "b", "c"}, []string{
		strings.TrimSpace(lines[1]), strings.TrimSpace(lines[2]), strings.TrimSpace(lines[3]),
	})
	assert.Contains(t, out, "3 entries")
}

func TestNames_JSON(t *testing.T) {
	dir := populate(t, "one", "two")

	out, err := execute(t, "names", dir, "-o", "json")
	require.NoError(t, err)

	var result scan.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, scan.OperationNames, result.Operation)
	assert.Len(t, result.Entries, 2)
	for _, e := range result.Entries {
		assert.Nil(t, e.Metadata)
	}
}

func TestLs_JSONSortedBySize(t *testing.T) {
	dir := populate(t, "s", "mmm", "ll")

	out, err := execute(t, "ls", dir, "-o", "json", "--sort", "size")
	require.NoError(t, err)

	var result scan.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Entries, 3)
	assert.Equal(t, "mmm", result.Entries[0].Name)
	assert.Equal(t, "s", result.Entries[2].Name)
	require.NotNil(t, result.Entries[0].Metadata)
	assert.Equal(t, "file", result.Entries[0].Metadata.Type)
	assert.Equal(t, int64(3), result.Entries[0].Metadata.Size)
}

func TestList_InvalidSort(t *testing.T) {
	_, err := execute(t, "names", t.TempDir(), "--sort", "size")
	assert.Error(t, err)
}

func TestList_AggregatesFailures(t *testing.T) {
	good := populate(t, "x")
	missing := filepath.Join(t.TempDir(), "missing")

	out, err := execute(t, "names", missing, good, "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)

	var results []scan.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1, "the readable directory is still listed")
	assert.Len(t, results[0].Entries, 1)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = execute(t, "config", "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation: OK")
	assert.Contains(t, out, "scan.allowed_roots is empty")
}

// startServer serves the API for a scan service confined to roots.
func startServer(t *testing.T, roots ...string) string {
	t.Helper()
	cfg := scan.DefaultConfig()
	cfg.AllowedRoots = roots
	server := httptest.NewServer(api.NewRouter(api.APIConfig{}, scan.New(cfg, nil), nil))
	t.Cleanup(server.Close)
	return server.URL
}

func TestNames_Server(t *testing.T) {
	dir := populate(t, "b", "a")
	url := startServer(t, dir)

	out, err := execute(t, "names", dir, "--server", url, "--sort", "name", "-o", "json")
	require.NoError(t, err)

	var result scan.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "a", result.Entries[0].Name)
}

func TestLs_ServerOutsideRoots(t *testing.T) {
	url := startServer(t, populate(t, "x"))

	_, err := execute(t, "ls", t.TempDir(), "--server", url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path_not_allowed")
}

func TestStatus(t *testing.T) {
	dir := populate(t, "x")
	url := startServer(t, dir)

	out, err := execute(t, "status", "--server", url)
	require.NoError(t, err)
	assert.Contains(t, out, "ROOT")
	assert.Contains(t, out, "healthy")

	missing := filepath.Join(t.TempDir(), "gone")
	url = startServer(t, missing)
	out, err = execute(t, "status", "--server", url, "-o", "json")
	require.Error(t, err)
	assert.Contains(t, out, "unhealthy")
}
