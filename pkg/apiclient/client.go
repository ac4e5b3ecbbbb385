// Package apiclient provides a client for the filegate file API, used by
// filegatectl.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultHeader is the header carrying the API key unless overridden.
const DefaultHeader = "X-API-Key"

// Client is the filegate API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	header     string
	apiKey     string
}

// New creates a new API client. A trailing slash on baseURL is ignored.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		header: DefaultHeader,
	}
}

// WithAPIKey returns a new client that sends key in the API-key header.
func (c *Client) WithAPIKey(key string) *Client {
	clone := *c
	clone.apiKey = key
	return &clone
}

// WithHeader returns a new client that sends the API key in header. An
// empty header keeps the current one.
func (c *Client) WithHeader(header string) *Client {
	clone := *c
	if header != "" {
		clone.header = header
	}
	return &clone
}

// SetAPIKey sets the API key.
func (c *Client) SetAPIKey(key string) {
	c.apiKey = key
}

// BaseURL returns the server URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// newRequest builds a request for the given escaped path segments.
func (c *Client) newRequest(ctx context.Context, method string, body io.Reader, segments ...string) (*http.Request, error) {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.Join(escaped, "/"), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if method != http.MethodHead {
		req.Header.Set("Accept", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(c.header, c.apiKey)
	}
	return req, nil
}

// send performs req and returns the response when its status is below 400.
// The caller owns the body.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		return nil, errorFromResponse(resp)
	}
	return resp, nil
}

// do performs req and decodes a JSON response into result, if non-nil.
func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func errorFromResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if len(body) > 0 && json.Unmarshal(body, apiErr) == nil && apiErr.Message != "" {
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
