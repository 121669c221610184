// Package api is the single path from the console to the admin backend.
//
// Every typed wrapper in this package goes through Client.Request, which owns
// bearer-token attachment, empty-body handling and error normalization.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/aiconsole/internal/logger"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/version"
)

// ErrUnauthenticated is returned for any 401 or 403 response. The stored
// session has already been cleared when it is returned.
var ErrUnauthenticated = errors.New("not authenticated, please log in again")

// HTTPError is any other non-2xx response.
type HTTPError struct {
	Body       string
	StatusCode int
}

// Error returns the raw response body, or "HTTP <status>" when it is empty.
func (e *HTTPError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// TokenStore is the session storage the client reads the bearer token from.
type TokenStore interface {
	Token() string
	Set(models.Session) error
	Clear() error
}

// Client talks to the admin REST API.
type Client struct {
	httpClient *http.Client
	store      TokenStore
	now        func() time.Time
	baseURL    string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets an overall per-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a client for the backend at baseURL that reads and writes the
// session through store.
func New(baseURL string, store TokenStore, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		store:      store,
		now:        time.Now,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  version.UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend origin requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Store returns the session store the client was created with.
func (c *Client) Store() TokenStore {
	return c.store
}

// RequestOption adjusts an outgoing request before it is sent.
type RequestOption func(*http.Request)

// WithHeader sets a header, overriding the defaults.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

const (
	authPathPrefix = "/api/auth/"

	// HeaderRequestID carries a per-call id that the backend can log.
	HeaderRequestID = "X-Request-ID"
)

// isAuthEndpoint reports whether endpoint must be called without a bearer token.
func isAuthEndpoint(endpoint string) bool {
	return strings.HasPrefix(endpoint, authPathPrefix)
}

// Request sends one call to the backend.
//
// body, when non-nil, is encoded as JSON. On success the response is decoded
// into out unless out is nil or the response is empty (204, Content-Length 0,
// or no bytes), in which case out is left untouched. Transport errors are
// returned as they come from the HTTP client.
func (c *Client) Request(ctx context.Context, method, endpoint string, body, out any, opts ...RequestOption) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(HeaderRequestID, uuid.NewString())
	for _, opt := range opts {
		opt(req)
	}

	if token := c.store.Token(); token != "" && !isAuthEndpoint(endpoint) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("api request failed", "method", method, "path", endpoint,
			"request_id", req.Header.Get(HeaderRequestID), "error", err)
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	logger.Debug("api request", "method", method, "path", endpoint,
		"request_id", req.Header.Get(HeaderRequestID), "status", resp.StatusCode, "duration", c.now().Sub(start))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if err := c.store.Clear(); err != nil {
			logger.Error("failed to clear session", "error", err)
		}
		logger.Warn("session rejected by backend", "status", resp.StatusCode, "path", endpoint)
		return ErrUnauthenticated
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read error response: %w", err)
		}
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 || out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", endpoint, err)
	}
	return nil
}

// get, post, put and del are shorthands over Request.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.Request(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.Request(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) put(ctx context.Context, endpoint string, body, out any) error {
	return c.Request(ctx, http.MethodPut, endpoint, body, out)
}

func (c *Client) del(ctx context.Context, endpoint string) error {
	return c.Request(ctx, http.MethodDelete, endpoint, nil, nil)
}
