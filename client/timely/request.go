package timely

import (
	"context"
	"fmt"
	"net/url"
)

// get fetches a versioned Timely API path and decodes the JSON reply.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if c.HttpClient == nil {
		return fmt.Errorf("timely client is not initialized")
	}
	return c.HttpClient.GetJSON(ctx, c.timelyEndpoint(apiVersion, path), query, out)
}
