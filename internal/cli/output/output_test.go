package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type record struct {
	Name string `json:"name" yaml:"name"`
	Size int64  `json:"size" yaml:"size"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFlagValue(t *testing.T) {
	f := FormatTable
	require.NoError(t, f.Set("yaml"))
	assert.Equal(t, FormatYAML, f)
	assert.Equal(t, "format", f.Type())
	assert.Error(t, f.Set("csv"))
	assert.Equal(t, FormatYAML, f)
}

func TestPrintTable(t *testing.T) {
	table := NewTableData("Name", "Size")
	table.AddRow("a.txt", "5 B")
	table.AddRow("sub", "4.0 KiB")
	table.SetFooter("2 entries")

	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, table))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "SIZE")
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "4.0 KiB")
	assert.True(t, strings.HasSuffix(out, "\n2 entries\n"))
}

func TestSimpleTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SimpleTable(&buf, [][2]string{{"Path", "/srv"}, {"Entries", "3"}}))

	assert.Contains(t, buf.String(), "Path")
	assert.Contains(t, buf.String(), "/srv")
	assert.Contains(t, buf.String(), "Entries")
}

func TestPrinter(t *testing.T) {
	data := []record{{Name: "a", Size: 1}}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatJSON, false).Print(data))

		var got []record
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, data, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatYAML, false).Print(data))

		var got []record
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, data, got)
	})

	t.Run("table falls back to json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, "", false).Print(data))
		assert.Contains(t, buf.String(), `"name": "a"`)
	})

	t.Run("messages", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewPrinter(&buf, FormatTable, true)
		p.Warning("careful")
		p.Success("done")
		assert.Contains(t, buf.String(), "\033[33mcareful\033[0m")
		assert.Contains(t, buf.String(), "\033[32mdone\033[0m")
	})
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", FormatTime(time.Time{}, true))
	assert.Equal(t, "3 hours ago", FormatTime(time.Now().Add(-3*time.Hour), true))

	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.Local)
	assert.Equal(t, "2024-05-01 12:30:00", FormatTime(ts, false))
}

func TestFormatDurationAndCount(t *testing.T) {
	assert.Equal(t, "1.23ms", FormatDuration(1234567*time.Nanosecond))
	assert.Equal(t, "2s", FormatDuration(2*time.Second+400*time.Microsecond))
	assert.Equal(t, "1,000,000", FormatCount(1000000))
}
