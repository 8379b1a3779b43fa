package apiclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/marmos91/dirsnap/pkg/scan"
)

// Names lists the entry names of path on the server.
func (c *Client) Names(ctx context.Context, path string) (*scan.Result, error) {
	return c.Scan(ctx, scan.OperationNames, path)
}

// Contents lists the entries of path on the server with their metadata.
func (c *Client) Contents(ctx context.Context, path string) (*scan.Result, error) {
	return c.Scan(ctx, scan.OperationContents, path)
}

// Scan runs op against path on the server. It has the same shape as
// scan.Service.Scan so either can back the CLI.
func (c *Client) Scan(ctx context.Context, op scan.Operation, path string) (*scan.Result, error) {
	var endpoint string
	switch op {
	case scan.OperationNames:
		endpoint = "/api/v1/names"
	case scan.OperationContents:
		endpoint = "/api/v1/contents"
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}

	var result scan.Result
	if err := c.get(ctx, endpoint, url.Values{"path": {path}}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
