package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/voicy/observability"
	"github.com/kbukum/voicy/resilience"
)

// Client is the outbound HTTP client shared by the Bot API client and the
// recognition engines. Every attempt gets its own client span.
type Client struct {
	http   *http.Client
	config Config
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		http: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}, nil
}

// Name returns the configured client name.
func (c *Client) Name() string {
	return c.config.Name
}

// HTTPClient returns the underlying *http.Client.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Do executes req, retrying when configured. On a non-2xx status both the
// response and a classified *Error are returned.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.config.Retry == nil {
		return c.attempt(ctx, req)
	}
	return resilience.Retry(ctx, *c.config.Retry, func(ctx context.Context) (*Response, error) {
		return c.attempt(ctx, req)
	})
}

func (c *Client) attempt(ctx context.Context, req Request) (*Response, error) {
	ctx, span := observability.StartSpan(ctx, "http "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.client", c.config.Name),
			attribute.String("http.method", req.Method),
		))
	defer span.End()

	resp, err := c.send(ctx, req)
	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return resp, err
}

func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := req.build(ctx, c.config)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, sendError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	limit := c.config.MaxResponseBytes
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	switch {
	case err != nil:
		return nil, sendError(ctx, fmt.Errorf("read response body: %w", err))
	case int64(len(body)) > limit:
		return nil, NewValidationError(fmt.Sprintf("response body exceeds %d bytes", limit))
	}

	result := &Response{StatusCode: resp.StatusCode, Header: resp.Header.Clone(), Body: body}
	if statusErr := ClassifyStatusCode(resp.StatusCode, body); statusErr != nil {
		return result, statusErr
	}
	return result, nil
}

// sendError tells a deadline from a broken connection.
func sendError(ctx context.Context, err error) *Error {
	if ctx.Err() != nil {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}
