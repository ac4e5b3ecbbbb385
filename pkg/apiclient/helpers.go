package apiclient

import (
	"context"
	"net/http"
	"time"
)

// Message is the body of a successful upload or delete.
type Message struct {
	Message string `json:"message"`
}

// getResource performs a GET on the given path segments and decodes the
// response into a T.
func getResource[T any](ctx context.Context, c *Client, segments ...string) (*T, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, segments...)
	if err != nil {
		return nil, err
	}
	var result T
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// deleteResource performs a DELETE on the given path segments.
func deleteResource(ctx context.Context, c *Client, segments ...string) (*Message, error) {
	req, err := c.newRequest(ctx, http.MethodDelete, nil, segments...)
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := c.do(req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// headResource performs a HEAD on the given path segments and returns the
// response headers.
func headResource(ctx context.Context, c *Client, segments ...string) (http.Header, error) {
	req, err := c.newRequest(ctx, http.MethodHead, nil, segments...)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	_ = resp.Body.Close()
	return resp.Header, nil
}

func parseHTTPTime(value string) time.Time {
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}
	}
	return t
}
