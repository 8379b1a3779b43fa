package bytesize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		input string
		want  ByteSize
	}{
		{"4096", 4096},
		{"32KiB", 32 * KiB},
		{"32Ki", 32 * KiB},
		{"1 MiB", MiB},
		{"1Gi", GiB},
		{"100MB", 100 * MB},
		{"1k", KB},
		{"1.5KiB", 1536},
		{"  64 kib ", 64 * KiB},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseByteSize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseByteSizeInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "12XB", "-5"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseByteSize(input)
			assert.Error(t, err)
		})
	}
}

func TestByteSizeString(t *testing.T) {
	assert.Equal(t, "512 B", ByteSize(512).String())
	assert.Equal(t, "32 KiB", (32 * KiB).String())
	assert.Equal(t, "1.5 MiB", (MiB + 512*KiB).String())
}

func TestByteSizeYAML(t *testing.T) {
	var cfg struct {
		Buffer ByteSize `yaml:"buffer"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("buffer: 64KiB\n"), &cfg))
	assert.Equal(t, 64*KiB, cfg.Buffer)

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Equal(t, "buffer: 64 KiB\n", string(out))
}

func TestByteSizeInt(t *testing.T) {
	assert.Equal(t, 4096, ByteSize(4096).Int())
	assert.Equal(t, math.MaxInt, ByteSize(math.MaxUint64).Int())
}
