package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer and restores the
// previous settings when the test ends.
func captureOutput(t *testing.T, lvl, fmtName string) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)

	mu.RLock()
	prevOutput, prevCloser, prevColor, prevFormat := output, closer, useColor, format
	mu.RUnlock()
	prevLevel := level.Level()

	InitWithWriter(buf, lvl, fmtName, false)

	t.Cleanup(func() {
		mu.Lock()
		output, closer, useColor, format = prevOutput, prevCloser, prevColor, prevFormat
		rebuild()
		mu.Unlock()
		level.Set(prevLevel)
	})
	return buf
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level   string
		visible []string
		hidden  []string
	}{
		{"DEBUG", []string{"debug message", "info message", "warn message", "error message"}, nil},
		{"INFO", []string{"info message", "warn message", "error message"}, []string{"debug message"}},
		{"WARN", []string{"warn message", "error message"}, []string{"debug message", "info message"}},
		{"ERROR", []string{"error message"}, []string{"debug message", "info message", "warn message"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := captureOutput(t, tt.level, "text")

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			out := buf.String()
			for _, s := range tt.visible {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.hidden {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	captureOutput(t, "INFO", "text")

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, "DEBUG", GetLevel())

	require.NoError(t, SetLevel("warning"))
	assert.Equal(t, "WARN", GetLevel())

	assert.Error(t, SetLevel("verbose"))
	assert.Equal(t, "WARN", GetLevel())
}

func TestSetLevelAffectsDerivedLoggers(t *testing.T) {
	buf := captureOutput(t, "INFO", "text")
	derived := With("component", "scanner")

	derived.Debug("hidden")
	require.NoError(t, SetLevel("DEBUG"))
	derived.Debug("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown component=scanner")
}

func TestSetFormat(t *testing.T) {
	captureOutput(t, "INFO", "text")
	assert.Error(t, SetFormat("xml"))
	require.NoError(t, SetFormat("JSON"))

	mu.RLock()
	defer mu.RUnlock()
	assert.Equal(t, "json", format)
}

func TestTextOutput(t *testing.T) {
	buf := captureOutput(t, "DEBUG", "text")

	Info("scan completed",
		KeyPath, "/srv/data",
		KeyEntries, 3,
		KeyDurationMs, 1.5,
		KeyError, "a b",
	)

	line := buf.String()
	assert.Contains(t, line, "[INFO] scan completed")
	assert.Contains(t, line, "path=/srv/data")
	assert.Contains(t, line, "entries=3")
	assert.Contains(t, line, "duration_ms=1.500")
	assert.Contains(t, line, `error="a b"`)
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestTextOutputGroups(t *testing.T) {
	buf := new(bytes.Buffer)
	h := NewColorTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false)
	l := slog.New(h).WithGroup("scan").With("id", "abc")

	l.Info("done", slog.Group("result", slog.Int("entries", 2)))

	assert.Contains(t, buf.String(), "scan.id=abc")
	assert.Contains(t, buf.String(), "scan.result.entries=2")
}

func TestTextOutputColor(t *testing.T) {
	buf := new(bytes.Buffer)
	l := slog.New(NewColorTextHandler(buf, nil, true))

	l.Warn("careful", KeyPath, "/tmp")

	assert.Contains(t, buf.String(), colorYellow+"WARN"+colorReset)
	assert.Contains(t, buf.String(), colorCyan+"path"+colorReset+"=/tmp")
}

func TestJSONOutput(t *testing.T) {
	buf := captureOutput(t, "INFO", "json")

	Info("scan completed", Path("/srv"), Entries(4), Err(errors.New("boom")))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "scan completed", record["msg"])
	assert.Equal(t, "/srv", record[KeyPath])
	assert.EqualValues(t, 4, record[KeyEntries])
	assert.Equal(t, "boom", record[KeyError])
}

func TestContextFields(t *testing.T) {
	buf := captureOutput(t, "DEBUG", "json")

	lc := NewLogContext("req-1").WithClient("10.0.0.1").WithOperation("contents", "/srv")
	ctx := WithContext(context.Background(), lc.WithTrace("trace", "span"))

	InfoCtx(ctx, "scanning", KeyEntries, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-1", record[KeyRequestID])
	assert.Equal(t, "10.0.0.1", record[KeyClientIP])
	assert.Equal(t, "contents", record[KeyOperation])
	assert.Equal(t, "/srv", record[KeyPath])
	assert.Equal(t, "trace", record[KeyTraceID])
	assert.Equal(t, "span", record[KeySpanID])
}

func TestContextFieldsWithoutLogContext(t *testing.T) {
	buf := captureOutput(t, "DEBUG", "text")

	DebugCtx(context.Background(), "plain", KeyPath, "/x")
	WarnCtx(context.TODO(), "nil context")

	assert.Contains(t, buf.String(), "plain path=/x")
	assert.Contains(t, buf.String(), "nil context")
}

func TestLogContextClone(t *testing.T) {
	var nilContext *LogContext
	assert.Nil(t, nilContext.Clone())
	assert.Nil(t, nilContext.WithOperation("names", "/"))
	assert.Zero(t, nilContext.DurationMs())

	lc := NewLogContext("id")
	clone := lc.WithOperation("names", "/a")
	assert.Empty(t, lc.Operation)
	assert.Equal(t, "names", clone.Operation)
	assert.Equal(t, "id", clone.RequestID)
	assert.GreaterOrEqual(t, clone.DurationMs(), 0.0)
}

func TestInitFileOutput(t *testing.T) {
	captureOutput(t, "INFO", "text")
	path := filepath.Join(t.TempDir(), "dirsnap.log")

	require.NoError(t, Init(Config{Level: "INFO", Format: "text", Output: path}))
	Info("to file", KeyPath, "/data")
	require.NoError(t, Init(Config{Output: "stderr"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file path=/data")
	assert.NotContains(t, string(data), "\033[")
}

func TestInitInvalid(t *testing.T) {
	captureOutput(t, "INFO", "text")

	assert.Error(t, Init(Config{Level: "loud"}))
	assert.Error(t, Init(Config{Format: "yaml"}))
	assert.Error(t, Init(Config{Output: filepath.Join(t.TempDir(), "missing", "x.log")}))
}

func TestErrNil(t *testing.T) {
	assert.True(t, Err(nil).Equal(slog.Attr{}))
}
