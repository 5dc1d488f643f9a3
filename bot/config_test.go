package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/telegram"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Name != "voicy" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Telegram.Mode != telegram.ModePolling {
		t.Errorf("Telegram.Mode = %q", cfg.Telegram.Mode)
	}
	if cfg.Engines.Timeout != 90*time.Second {
		t.Errorf("Engines.Timeout = %v", cfg.Engines.Timeout)
	}
	if cfg.Pipeline.MaxFileSize != chat.MaxFileSize {
		t.Errorf("Pipeline.MaxFileSize = %d", cfg.Pipeline.MaxFileSize)
	}
	if cfg.Pipeline.DrainTimeout != 10*time.Second {
		t.Errorf("Pipeline.DrainTimeout = %v", cfg.Pipeline.DrainTimeout)
	}
	if cfg.Database.DSN == "" {
		t.Error("database DSN default missing")
	}
	if cfg.Promo.Texts["default"] == "" || cfg.Promo.Texts["ru"] == "" {
		t.Errorf("promo texts = %v", cfg.Promo.Texts)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Telegram.Token = "123:abc"
		cfg.Database.Enabled = true
		cfg.Engines.Wit = map[string]any{"tokens": map[string]any{"en": "t"}}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"missing token", func(c *Config) { c.Telegram.Token = "" }, "token"},
		{"database disabled", func(c *Config) { c.Database.Enabled = false }, "database.enabled"},
		{"no wit section", func(c *Config) { c.Engines.Wit = nil }, "engines.wit"},
		{"webhook without server", func(c *Config) {
			c.Telegram.Mode = telegram.ModeWebhook
			c.Telegram.WebhookURL = "https://bot.example.com"
			c.Telegram.WebhookSecret = "s3cret"
		}, "server.enabled"},
		{"bad environment", func(c *Config) { c.Environment = "qa" }, "environment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
