package scan

import "time"

// Config controls how scans are performed.
type Config struct {
	// Timeout bounds a whole scan including retries. Zero means no limit
	// beyond the caller's context.
	Timeout time.Duration

	// BufferSize is the raw directory entry buffer size in bytes.
	BufferSize int

	Retry RetryConfig

	// AllowedRoots restricts scans to these directories and their
	// descendants. Empty allows any path.
	AllowedRoots []string
}

// RetryConfig controls retries of transient failures such as descriptor
// exhaustion or interrupted system calls.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Timeout:    30 * time.Second,
		BufferSize: 32 * 1024,
		Retry: RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 50 * time.Millisecond,
			MaxInterval:     time.Second,
			Multiplier:      2,
		},
	}
}
