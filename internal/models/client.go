package models

// ClientApplication is a downstream consumer of the gateway.
type ClientApplication struct {
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	APIKey      string    `json:"apiKey"`
	IsActive    bool      `json:"isActive"`
}

// ClientRequest is the create/update payload for a client application.
type ClientRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
}

// EditRequest returns an update payload pre-populated from c.
func (c *ClientApplication) EditRequest() ClientRequest {
	return ClientRequest{Name: c.Name, Description: c.Description, IsActive: c.IsActive}
}

// MaskedKey returns the API key with everything but the edges hidden.
func (c *ClientApplication) MaskedKey() string {
	k := c.APIKey
	if len(k) <= 8 {
		return k
	}
	return k[:4] + "…" + k[len(k)-4:]
}
