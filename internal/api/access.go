package api

import (
	"context"

	"github.com/j-veylop/aiconsole/internal/models"
)

const accessPath = "/api/admin/access"

// ListAccess returns every access grant.
func (c *Client) ListAccess(ctx context.Context) ([]models.ClientNetworkAccess, error) {
	return c.listAccess(ctx, accessPath)
}

// ListClientAccess returns the grants held by one client.
func (c *Client) ListClientAccess(ctx context.Context, clientID string) ([]models.ClientNetworkAccess, error) {
	return c.listAccess(ctx, idPath(accessPath+"/client", clientID))
}

// ListNetworkAccess returns the grants on one network.
func (c *Client) ListNetworkAccess(ctx context.Context, networkID string) ([]models.ClientNetworkAccess, error) {
	return c.listAccess(ctx, idPath(accessPath+"/network", networkID))
}

func (c *Client) listAccess(ctx context.Context, endpoint string) ([]models.ClientNetworkAccess, error) {
	var out []models.ClientNetworkAccess
	if err := c.get(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAccess returns one grant.
func (c *Client) GetAccess(ctx context.Context, id string) (*models.ClientNetworkAccess, error) {
	var out models.ClientNetworkAccess
	if err := c.get(ctx, idPath(accessPath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAccessStats returns grant counts.
func (c *Client) GetAccessStats(ctx context.Context) (*models.AccessStats, error) {
	var out models.AccessStats
	if err := c.get(ctx, accessPath+"/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GrantAccess creates or updates the grant for a client/network pair.
func (c *Client) GrantAccess(ctx context.Context, req models.GrantAccessRequest) (*models.ClientNetworkAccess, error) {
	var out models.ClientNetworkAccess
	if err := c.post(ctx, accessPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GrantAllAccess grants a client unlimited access to every active network it
// does not already have.
func (c *Client) GrantAllAccess(ctx context.Context, clientID string) (*models.GrantAllResult, error) {
	var out models.GrantAllResult
	if err := c.post(ctx, idPath(accessPath+"/grant-all", clientID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeAccess deletes a grant.
func (c *Client) RevokeAccess(ctx context.Context, id string) error {
	return c.del(ctx, idPath(accessPath, id))
}
