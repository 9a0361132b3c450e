package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/syncbridge/backend/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from the remote
// catalog API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client implements integration.RemoteSource against the remote catalog
// system's REST API. Each fetch returns the full collection in one request.
// The client never retries; retry policy belongs to callers.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new remote catalog client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// NewClientWithHTTPClient creates a client with a caller-supplied HTTP
// client, used by tests.
func NewClientWithHTTPClient(config *Config, httpClient *http.Client) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{config: config, httpClient: httpClient}, nil
}

// FetchProducts fetches the full product collection from the remote system
func (c *Client) FetchProducts(ctx context.Context) ([]integration.RemoteProduct, error) {
	var records []integration.RemoteProduct
	if err := c.get(ctx, "/products", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchCustomers fetches the full customer collection from the remote system
func (c *Client) FetchCustomers(ctx context.Context) ([]integration.RemoteCustomer, error) {
	var records []integration.RemoteCustomer
	if err := c.get(ctx, "/customers", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchOrders fetches the full order collection from the remote system
func (c *Client) FetchOrders(ctx context.Context) ([]integration.RemoteOrder, error) {
	var records []integration.RemoteOrder
	if err := c.get(ctx, "/orders", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// get performs a GET request against the remote API and decodes the JSON
// response into out. Connection failures, non-2xx responses and malformed
// payloads all surface as ErrRemoteUnavailable.
func (c *Client) get(ctx context.Context, path string, out any) error {
	url := strings.TrimSuffix(c.config.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("remote: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", integration.ErrRemoteUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: GET %s returned HTTP %d", integration.ErrRemoteUnavailable, path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: malformed response for %s: %v", integration.ErrRemoteUnavailable, path, err)
	}
	return nil
}

var _ integration.RemoteSource = (*Client)(nil)
