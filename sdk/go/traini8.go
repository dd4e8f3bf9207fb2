// Package traini8 is a Go client for the Traini8 training center API.
package traini8

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds the configuration for the Traini8 client.
type Config struct {
	// BaseURL is the root URL of the server, e.g. "https://traini8.example.com".
	// The "/api/training-centers" suffix is appended automatically if missing.
	BaseURL string

	// HTTPClient is an optional custom HTTP client.
	// If nil, a default client with 10s timeout is used.
	HTTPClient *http.Client
}

const basePath = "/api/training-centers"

func (c *Config) defaults() {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if !strings.HasSuffix(c.BaseURL, basePath) {
		c.BaseURL += basePath
	}
}

// Client calls the training center endpoints.
type Client struct {
	cfg Config
}

// NewClient creates a new client with the given configuration.
func NewClient(cfg Config) *Client {
	cfg.defaults()
	return &Client{cfg: cfg}
}

// Create registers a training center. Validation failures and duplicate
// values come back as *APIError with Fields populated.
func (c *Client) Create(ctx context.Context, center TrainingCenter) (*TrainingCenter, error) {
	payload, err := json.Marshal(center)
	if err != nil {
		return nil, fmt.Errorf("traini8: failed to encode request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/add", bytes.NewReader(payload), http.StatusCreated)
	if err != nil {
		return nil, err
	}

	var created TrainingCenter
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("traini8: failed to parse training center: %w", err)
	}
	return &created, nil
}

// List returns every registered training center.
func (c *Client) List(ctx context.Context) ([]TrainingCenter, error) {
	body, err := c.do(ctx, http.MethodGet, "/get", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var centers []TrainingCenter
	if err := json.Unmarshal(body, &centers); err != nil {
		return nil, fmt.Errorf("traini8: failed to parse training centers: %w", err)
	}
	return centers, nil
}

func (c *Client) do(ctx context.Context, method, path string, reqBody io.Reader, wantStatus int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("traini8: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("traini8: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("traini8: failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return nil, parseAPIError(resp.StatusCode, body)
	}
	return body, nil
}
