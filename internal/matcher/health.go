package matcher

import "context"

const apiHealthPath = "/health"

type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health reports whether the API is up.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.getJSON(ctx, "health", apiHealthPath, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
