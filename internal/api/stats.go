package api

import (
	"context"

	"github.com/j-veylop/aiconsole/internal/models"
)

// GetStats returns the aggregate usage statistics.
func (c *Client) GetStats(ctx context.Context) (*models.UsageStats, error) {
	var out models.UsageStats
	if err := c.get(ctx, "/api/admin/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
