package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voicy/errors"
	"github.com/kbukum/voicy/logger"
	"github.com/kbukum/voicy/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRecovery_Panic(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(logger.Nop()))
	r.GET("/test", func(*gin.Context) { panic("test panic") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var body apperrors.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Error.Code != apperrors.ErrCodeInternal {
		t.Fatalf("code = %s", body.Error.Code)
	}
	if strings.Contains(rr.Body.String(), "test panic") {
		t.Error("panic value leaked to the client")
	}
}

func TestRequestID_GeneratesAndStoresInContext(t *testing.T) {
	var fromCtx string
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) {
		fromCtx = logger.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	header := rr.Header().Get(middleware.RequestIDHeader)
	if header == "" {
		t.Fatal("expected X-Request-Id in response headers")
	}
	if fromCtx != header {
		t.Errorf("context id %q != header id %q", fromCtx, header)
	}
}

func TestBodySizeLimit(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		unknownLength bool
		want          int
	}{
		{"within limit", "tiny", false, http.StatusOK},
		{"declared too large", strings.Repeat("x", 64), false, http.StatusRequestEntityTooLarge},
		{"streamed too large", strings.Repeat("x", 64), true, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.BodySizeLimit(16))
			r.POST("/", func(c *gin.Context) {
				if _, err := io.ReadAll(c.Request.Body); err != nil {
					c.Status(http.StatusBadRequest)
					return
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.unknownLength {
				req.ContentLength = -1
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestRequestLogger_SkipsProbes(t *testing.T) {
	var sb strings.Builder
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &sb)

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if sb.Len() != 0 {
		t.Fatalf("probe request was logged: %s", sb.String())
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", http.NoBody))
	out := sb.String()
	if !strings.Contains(out, `"route":"/items/:id"`) || !strings.Contains(out, `"status":404`) {
		t.Fatalf("unexpected log line: %s", out)
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("4xx should log at warn: %s", out)
	}
}
