package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Request describes one call.
type Request struct {
	Method string
	// Path is appended to BaseURL unless it is an absolute URL, which is how
	// Telegram file links are downloaded.
	Path    string
	Headers map[string]string
	Query   map[string]string
	// Body accepts []byte, string, or a value to JSON-encode. Bodies are
	// re-encoded on every retry attempt.
	Body any
	// Auth replaces the client-level Auth for this call.
	Auth Auth
}

func (r Request) url(base string) string {
	if base == "" || strings.HasPrefix(r.Path, "http://") || strings.HasPrefix(r.Path, "https://") {
		return r.Path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(r.Path, "/")
}

// build turns r into an *http.Request. Request headers win over client
// headers, and an explicit Content-Type wins over the one implied by Body.
func (r Request) build(ctx context.Context, cfg Config) (*http.Request, error) {
	body, contentType, err := encodeBody(r.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.url(cfg.BaseURL), body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(r.Query) > 0 {
		q := req.URL.Query()
		for k, v := range r.Query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, headers := range []map[string]string{cfg.Headers, r.Headers} {
		for k, v := range headers {
			req.Header.Set(k, v)
		}
	}

	if auth := firstAuth(r.Auth, cfg.Auth); auth != nil {
		auth(req)
	}
	return req, nil
}

func firstAuth(auths ...Auth) Auth {
	for _, a := range auths {
		if a != nil {
			return a
		}
	}
	return nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
