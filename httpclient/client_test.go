package httpclient

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/voicy/errors"
	"github.com/kbukum/voicy/resilience"
)

func TestClient_BuildsRequest(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL + "/",
		Headers: map[string]string{"User-Agent": "voicy"},
		Auth:    BearerAuth("default-token"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/speech",
		Query:  map[string]string{"lang": "en"},
		Body:   map[string]string{"a": "b"},
		Auth:   APIKeyAuthQuery("secret", "key"),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if got.URL.Path != "/speech" {
		t.Errorf("path = %s", got.URL.Path)
	}
	if got.URL.Query().Get("lang") != "en" || got.URL.Query().Get("key") != "secret" {
		t.Errorf("query = %s", got.URL.RawQuery)
	}
	if got.Header.Get("Authorization") != "" {
		t.Error("request auth must replace client auth")
	}
	if got.Header.Get("Content-Type") != "application/json" || got.Header.Get("User-Agent") != "voicy" {
		t.Errorf("headers = %v", got.Header)
	}
}

func TestClient_Auth(t *testing.T) {
	tests := []struct {
		name string
		auth Auth
		got  func(*http.Request) string
		want string
	}{
		{"bearer", BearerAuth("tok"), func(r *http.Request) string { return r.Header.Get("Authorization") }, "Bearer tok"},
		{"query key", APIKeyAuthQuery("k1", "key"), func(r *http.Request) string { return r.URL.Query().Get("key") }, "k1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = tt.got(r)
			}))
			defer srv.Close()

			c, _ := New(Config{BaseURL: srv.URL, Auth: tt.auth})
			if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}); err != nil {
				t.Fatalf("Do: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_ClassifiesStatus(t *testing.T) {
	tests := []struct {
		status    int
		code      ErrorCode
		retryable bool
	}{
		{http.StatusBadRequest, ErrCodeValidation, false},
		{http.StatusUnauthorized, ErrCodeAuth, false},
		{http.StatusNotFound, ErrCodeNotFound, false},
		{http.StatusTooManyRequests, ErrCodeRateLimit, true},
		{http.StatusBadGateway, ErrCodeServer, true},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"ok":false}`))
			}))
			defer srv.Close()

			c, _ := New(Config{BaseURL: srv.URL})
			resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
			var e *Error
			if !stderrors.As(err, &e) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if e.Code != tt.code || e.Retryable != tt.retryable || e.StatusCode != tt.status {
				t.Errorf("got %+v", e)
			}
			if resp == nil || string(resp.Body) != `{"ok":false}` {
				t.Error("error responses keep their body")
			}
			if StatusCode(err) != tt.status {
				t.Errorf("StatusCode = %d", StatusCode(err))
			}
		})
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	retry := DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	retry.MaxBackoff = time.Millisecond
	c, _ := New(Config{BaseURL: srv.URL, Retry: retry})

	if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"description":"bad"}`))
	}))
	defer srv.Close()

	retry := DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	c, _ := New(Config{BaseURL: srv.URL, Retry: retry})

	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err == nil || calls.Load() != 1 {
		t.Fatalf("err=%v calls=%d", err, calls.Load())
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Error("the final response is returned with the error")
	}
}

func TestClient_ResponseLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, MaxResponseBytes: 32})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/voice.oga"})
	var e *Error
	if !stderrors.As(err, &e) || e.Code != ErrCodeValidation || e.Retryable {
		t.Fatalf("expected final validation error, got %v", err)
	}

	c, _ = New(Config{BaseURL: srv.URL, MaxResponseBytes: 64})
	if resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/voice.oga"}); err != nil || len(resp.Body) != 64 {
		t.Fatalf("body at the limit must pass: %v", err)
	}
}

func TestClient_RecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c, _ := New(Config{Name: "telegram", BaseURL: srv.URL})
	_, _ = c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/sendMessage"})

	spans := rec.Ended()
	if len(spans) != 1 || spans[0].Name() != "http POST" {
		t.Fatalf("spans = %v", spans)
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs["http.client"].AsString() != "telegram" || attrs["http.status_code"].AsInt64() != http.StatusBadRequest {
		t.Errorf("attributes = %v", attrs)
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("status = %v", spans[0].Status())
	}
}

func TestClient_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := New(Config{BaseURL: url})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	var e *Error
	if !stderrors.As(err, &e) || e.Code != ErrCodeConnection || !e.Retryable {
		t.Errorf("expected retryable connection error, got %v", err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	c, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.HTTPClient().Timeout != 30*time.Second {
		t.Errorf("timeout = %v", c.HTTPClient().Timeout)
	}
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      errors.ErrorCode
		retryable bool
	}{
		{"timeout", NewTimeoutError(stderrors.New("deadline")), errors.ErrCodeTimeout, true},
		{"rate limit", NewRateLimitError(nil), errors.ErrCodeRateLimited, true},
		{"auth", NewAuthError(http.StatusForbidden, nil), errors.ErrCodeUnauthorized, false},
		{"server", NewServerError(http.StatusBadGateway, nil), errors.ErrCodeExternalService, true},
		{"bad request", ClassifyStatusCode(http.StatusBadRequest, nil), errors.ErrCodeExternalService, false},
		{"plain", stderrors.New("boom"), errors.ErrCodeExternalService, false},
		{"circuit open", resilience.ErrCircuitOpen, errors.ErrCodeServiceUnavailable, true},
		{"already app error", errors.MissingCredentials("google"), errors.ErrCodeMissingCredentials, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToAppError("wit", tt.err)
			appErr, ok := errors.AsAppError(got)
			if !ok {
				t.Fatalf("expected AppError, got %T", got)
			}
			if appErr.Code != tt.code || appErr.Retryable != tt.retryable {
				t.Errorf("got code=%s retryable=%v", appErr.Code, appErr.Retryable)
			}
			if !stderrors.Is(got, tt.err) && tt.name != "already app error" {
				t.Error("cause must stay reachable")
			}
		})
	}
	if ToAppError("wit", nil) != nil {
		t.Error("nil stays nil")
	}
}

func TestRequestURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"https://api.telegram.org/", "/botT/getMe", "https://api.telegram.org/botT/getMe"},
		{"https://api.telegram.org", "botT/getMe", "https://api.telegram.org/botT/getMe"},
		{"https://api.wit.ai", "https://api.telegram.org/file/botT/v.oga", "https://api.telegram.org/file/botT/v.oga"},
		{"", "/speech", "/speech"},
	}
	for _, tt := range tests {
		if got := (Request{Path: tt.path}).url(tt.base); got != tt.want {
			t.Errorf("url(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
