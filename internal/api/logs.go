package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/j-veylop/aiconsole/internal/models"
)

// ListLogs returns one page of request logs, newest first. Filter fields are
// only sent when set.
func (c *Client) ListLogs(ctx context.Context, page, size int, filter models.LogFilter) (*models.LogPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if filter.ClientID != nil {
		q.Set("clientId", *filter.ClientID)
	}
	if filter.NetworkID != nil {
		q.Set("networkId", *filter.NetworkID)
	}
	if filter.Success != nil {
		q.Set("success", strconv.FormatBool(*filter.Success))
	}

	var out models.LogPage
	if err := c.get(ctx, "/api/admin/logs?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
