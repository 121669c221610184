package api

import (
	"context"

	"github.com/j-veylop/aiconsole/internal/models"
)

const clientsPath = "/api/admin/clients"

// ListClients returns every client application.
func (c *Client) ListClients(ctx context.Context) ([]models.ClientApplication, error) {
	var out []models.ClientApplication
	if err := c.get(ctx, clientsPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetClient returns one client application.
func (c *Client) GetClient(ctx context.Context, id string) (*models.ClientApplication, error) {
	var out models.ClientApplication
	if err := c.get(ctx, idPath(clientsPath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateClient creates a client application. The backend issues its API key.
func (c *Client) CreateClient(ctx context.Context, req models.ClientRequest) (*models.ClientApplication, error) {
	var out models.ClientApplication
	if err := c.post(ctx, clientsPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateClient replaces a client's name, description and active flag.
func (c *Client) UpdateClient(ctx context.Context, id string, req models.ClientRequest) (*models.ClientApplication, error) {
	var out models.ClientApplication
	if err := c.put(ctx, idPath(clientsPath, id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteClient removes a client application.
func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.del(ctx, idPath(clientsPath, id))
}

// RegenerateAPIKey invalidates the client's key and returns the client with a new one.
func (c *Client) RegenerateAPIKey(ctx context.Context, id string) (*models.ClientApplication, error) {
	var out models.ClientApplication
	if err := c.post(ctx, idPath(clientsPath, id, "regenerate-key"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
