package apiclient

import (
	"context"
)

// RootStatus is the readiness of one allowed root.
type RootStatus struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

// Readiness is the payload of the readiness probe.
type Readiness struct {
	Roots   []RootStatus `json:"roots"`
	Latency string       `json:"latency"`
	Errors  []string     `json:"errors,omitempty"`
}

// Health checks that the server is alive.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health/", nil, nil)
}

// Ready fetches the readiness of every allowed root. On 503 the per-root
// report is returned together with the *APIError.
func (c *Client) Ready(ctx context.Context) (*Readiness, error) {
	var r Readiness
	err := c.get(ctx, "/health/ready", nil, &r)
	return &r, err
}
