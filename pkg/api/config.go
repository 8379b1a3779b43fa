package api

import "time"

// APIConfig configures the REST API HTTP server.
type APIConfig struct {
	// Host is the interface to bind. Empty binds all interfaces.
	Host string

	// Port is the HTTP port for the API endpoints. Zero picks a free port.
	Port int

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 10s
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must cover the slowest scan.
	// Default: 60s
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 60s
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration

	// RequestTimeout cancels handlers that run longer.
	// Default: WriteTimeout
	RequestTimeout time.Duration

	// MetricsEnabled mounts GET /metrics on the API router.
	MetricsEnabled bool
}

// applyDefaults fills in zero values with sensible defaults.
func (c *APIConfig) applyDefaults() {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = c.WriteTimeout
	}
}
