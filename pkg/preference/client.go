// Package preference is the HTTP client of the remote preference service.
package preference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nutriflow/nutriflow/pkg/models"
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 1024 * 1024
)

// ErrInvalidResponse is returned when a 2xx response cannot be used.
var ErrInvalidResponse = errors.New("invalid response from preference service")

// StatusError represents a non-2xx answer of the preference service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Client talks to the remote preference endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Create posts a new preference record.
func (c *Client) Create(ctx context.Context, token string, payload models.PreferencePayload) (*models.RemoteRecord, error) {
	return c.do(ctx, http.MethodPost, c.baseURL+"/preferences", token, payload)
}

// Update replaces the preference record id.
func (c *Client) Update(ctx context.Context, token, id string, payload models.PreferencePayload) (*models.RemoteRecord, error) {
	return c.do(ctx, http.MethodPut, c.baseURL+"/preferences/"+url.PathEscape(id), token, payload)
}

func (c *Client) do(ctx context.Context, method, endpoint, token string, payload models.PreferencePayload) (*models.RemoteRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.DebugContext(ctx, "Calling preference service", "method", method, "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	var record models.RemoteRecord

	err = json.Unmarshal(respBody, &record)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if record.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidResponse)
	}

	return &record, nil
}
