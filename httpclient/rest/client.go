package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kbukum/voicy/httpclient"
)

// Client posts JSON and decodes JSON replies.
type Client struct {
	http *httpclient.Client
}

// New creates a Client. Content-Type and Accept default to
// application/json unless cfg.Headers sets them.
func New(cfg httpclient.Config) (*Client, error) {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	cfg.Headers = headers

	c, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// HTTP returns the underlying client, e.g. for raw downloads.
func (c *Client) HTTP() *httpclient.Client {
	return c.http
}

// RequestOption adjusts a single request.
type RequestOption func(*httpclient.Request)

// WithAuth overrides the client authentication for one request.
func WithAuth(auth httpclient.Auth) RequestOption {
	return func(r *httpclient.Request) { r.Auth = auth }
}

// Response is a decoded JSON response.
type Response[T any] struct {
	StatusCode int
	Header     http.Header
	Data       T
}

// Post sends body as JSON and decodes the reply into T. When the server
// answers with an error status and a JSON body, the decoded response is
// returned together with the classified error: the Bot API and Google both
// put the failure reason in the body.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	req := httpclient.Request{Method: http.MethodPost, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := c.http.Do(ctx, req)
	if resp == nil {
		return nil, err
	}

	out := &Response[T]{StatusCode: resp.StatusCode, Header: resp.Header}
	if len(resp.Body) == 0 {
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	if jsonErr := json.Unmarshal(resp.Body, &out.Data); jsonErr != nil {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("httpclient/rest: decode response: %w", jsonErr)
	}
	return out, err
}
