package telegram

import (
	"fmt"
	"time"
)

// Hosting modes.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config holds the Bot API settings.
type Config struct {
	Token  string `yaml:"token" mapstructure:"token" validate:"required"`
	APIURL string `yaml:"api_url" mapstructure:"api_url" validate:"omitempty,url"`
	Mode   string `yaml:"mode" mapstructure:"mode" validate:"omitempty,oneof=polling webhook"`
	// PollTimeout is the long-poll wait passed to getUpdates.
	PollTimeout time.Duration `yaml:"poll_timeout" mapstructure:"poll_timeout"`
	// WebhookURL is the public base URL; the secret path segment is appended.
	WebhookURL    string `yaml:"webhook_url" mapstructure:"webhook_url" validate:"required_if=Mode webhook"`
	WebhookSecret string `yaml:"webhook_secret" mapstructure:"webhook_secret" validate:"required_if=Mode webhook"`
	// RatePerSecond is the global send budget; each chat additionally gets ChatRate.
	RatePerSecond float64       `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	ChatRate      float64       `yaml:"chat_rate" mapstructure:"chat_rate"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills zero values with Bot API friendly limits.
func (c *Config) ApplyDefaults() {
	if c.APIURL == "" {
		c.APIURL = "https://api.telegram.org"
	}
	if c.Mode == "" {
		c.Mode = ModePolling
	}
	if c.PollTimeout == 0 {
		c.PollTimeout = 30 * time.Second
	}
	if c.RatePerSecond == 0 {
		c.RatePerSecond = 30
	}
	if c.ChatRate == 0 {
		c.ChatRate = 1
	}
	if c.Timeout == 0 {
		c.Timeout = 15 * time.Second
	}
}

// WebhookPath is the route the webhook server listens on.
func (c Config) WebhookPath() string {
	return fmt.Sprintf("/telegram/%s", c.WebhookSecret)
}
