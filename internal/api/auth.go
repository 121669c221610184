package api

import (
	"context"
	"fmt"

	"github.com/j-veylop/aiconsole/internal/models"
)

// Login authenticates and stores the returned session.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.post(ctx, "/api/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response did not contain a token")
	}
	if resp.Username == "" {
		resp.Username = creds.Username
	}
	if err := c.store.Set(models.NewSession(&resp, c.baseURL, c.now())); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return &resp, nil
}

// Register creates an admin account. It does not log in.
func (c *Client) Register(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.post(ctx, "/api/auth/register", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout forgets the stored session. The backend keeps no server-side state.
func (c *Client) Logout() error {
	return c.store.Clear()
}
