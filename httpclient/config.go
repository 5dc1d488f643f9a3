package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/voicy/resilience"
)

const (
	defaultTimeout = 30 * time.Second
	// defaultMaxResponseBytes covers the largest file the Bot API serves.
	defaultMaxResponseBytes = 20 << 20
)

// Config configures a Client.
type Config struct {
	// Name labels spans and errors, e.g. "telegram" or "wit".
	Name    string
	BaseURL string
	// Timeout bounds one attempt, body read included.
	Timeout time.Duration
	Headers map[string]string
	// MaxResponseBytes caps the body read from any response.
	MaxResponseBytes int64
	Auth             Auth
	// Retry wraps each call. Nil disables retries.
	Retry *resilience.RetryConfig
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = defaultMaxResponseBytes
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient %s: timeout must be positive", c.Name)
	}
	return nil
}

// DefaultRetryConfig retries transport failures, 429 and 5xx.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.ShouldRetry = IsRetryable
	return &cfg
}
