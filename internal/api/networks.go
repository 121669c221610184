package api

import (
	"context"

	"github.com/j-veylop/aiconsole/internal/models"
)

const networksPath = "/api/admin/networks"

// ListNetworks returns every configured network.
func (c *Client) ListNetworks(ctx context.Context) ([]models.NeuralNetwork, error) {
	var out []models.NeuralNetwork
	if err := c.get(ctx, networksPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetNetwork returns one network.
func (c *Client) GetNetwork(ctx context.Context, id string) (*models.NeuralNetwork, error) {
	var out models.NeuralNetwork
	if err := c.get(ctx, idPath(networksPath, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateNetwork creates a network.
func (c *Client) CreateNetwork(ctx context.Context, req models.NetworkRequest) (*models.NeuralNetwork, error) {
	var out models.NeuralNetwork
	if err := c.post(ctx, networksPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateNetwork replaces a network's settings. An empty APIKey is not sent.
func (c *Client) UpdateNetwork(ctx context.Context, id string, req models.NetworkRequest) (*models.NeuralNetwork, error) {
	var out models.NeuralNetwork
	if err := c.put(ctx, idPath(networksPath, id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteNetwork removes a network.
func (c *Client) DeleteNetwork(ctx context.Context, id string) error {
	return c.del(ctx, idPath(networksPath, id))
}
