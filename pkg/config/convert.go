package config

import (
	"github.com/marmos91/dirsnap/internal/logger"
	"github.com/marmos91/dirsnap/internal/telemetry"
	"github.com/marmos91/dirsnap/pkg/scan"
)

// LoggerConfig returns the logger settings.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Output: c.Logging.Output,
	}
}

// TelemetryConfig returns the tracing settings tagged with version.
func (c *Config) TelemetryConfig(version string) telemetry.Config {
	cfg := telemetry.DefaultConfig()
	cfg.Enabled = c.Telemetry.Enabled
	cfg.Endpoint = c.Telemetry.Endpoint
	cfg.Insecure = c.Telemetry.Insecure
	cfg.SampleRate = c.Telemetry.SampleRate
	cfg.ServiceVersion = version
	return cfg
}

// ProfilingConfig returns the Pyroscope settings tagged with version.
func (c *Config) ProfilingConfig(version string) telemetry.ProfilingConfig {
	cfg := telemetry.DefaultProfilingConfig()
	cfg.Enabled = c.Telemetry.Profiling.Enabled
	cfg.Endpoint = c.Telemetry.Profiling.Endpoint
	cfg.ProfileTypes = c.Telemetry.Profiling.ProfileTypes
	cfg.ServiceVersion = version
	return cfg
}

// ScanConfig returns the scanner settings.
func (c *Config) ScanConfig() scan.Config {
	return scan.Config{
		Timeout:    c.Scan.Timeout,
		BufferSize: c.Scan.BufferSize.Int(),
		Retry: scan.RetryConfig{
			MaxAttempts:     c.Scan.Retry.MaxAttempts,
			InitialInterval: c.Scan.Retry.InitialInterval,
			MaxInterval:     c.Scan.Retry.MaxInterval,
			Multiplier:      c.Scan.Retry.Multiplier,
		},
		AllowedRoots: append([]string(nil), c.Scan.AllowedRoots...),
	}
}
