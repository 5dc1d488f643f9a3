package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }

func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Telegram      struct {
		Token         string `mapstructure:"token"`
		WebhookSecret string `mapstructure:"webhook_secret"`
		Mode          string `mapstructure:"mode"`
	} `mapstructure:"telegram"`
	Engines struct {
		Wit struct {
			Tokens map[string]string `mapstructure:"tokens"`
		} `mapstructure:"wit"`
	} `mapstructure:"engines"`
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "voicy"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging in development, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "voicy", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info logging, got %q", cfg.Logging.Level)
		}
		if !cfg.IsProduction() {
			t.Error("expected IsProduction")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	valid := func() ServiceConfig {
		c := ServiceConfig{Name: "voicy", Environment: "staging"}
		c.ApplyDefaults()
		return c
	}
	tests := []struct {
		name   string
		mutate func(*ServiceConfig)
		errMsg string
	}{
		{"valid", func(*ServiceConfig) {}, ""},
		{"missing name", func(c *ServiceConfig) { c.Name = "" }, "name: is required"},
		{"bad environment", func(c *ServiceConfig) { c.Environment = "qa" }, "environment: must be one of: development staging production"},
		{"bad logging", func(c *ServiceConfig) { c.Logging.Format = "xml" }, "logging.format: must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Fatalf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

func TestResolvePrefersCmdDirectory(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/voicy/config.yml": true,
		"./config.yml":           true,
		"./.env":                 true,
	}}
	files := Resolve("voicy", LoaderConfig{FileSystem: fs})
	if files.ConfigFile != "./cmd/voicy/config.yml" {
		t.Errorf("unexpected config file %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("unexpected env file %q", files.EnvFile)
	}
}

func TestResolveExplicitPathsWin(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./cmd/voicy/config.yml": true}}
	files := Resolve("voicy", LoaderConfig{FileSystem: fs, ConfigFile: "/etc/voicy.yml", EnvFile: "/etc/voicy.env"})
	if files.ConfigFile != "/etc/voicy.yml" || files.EnvFile != "/etc/voicy.env" {
		t.Errorf("explicit paths ignored: %+v", files)
	}
}

func TestResolveServiceEnvFileFirst(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./.env.voicy": true, "./.env": true}}
	if got := Resolve("voicy", LoaderConfig{FileSystem: fs}).EnvFile; got != "./.env.voicy" {
		t.Errorf("expected service env file, got %q", got)
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
name: voicy
environment: staging
telegram:
  token: from-file
  mode: polling
engines:
  wit:
    tokens:
      en: wit-en
      ru: wit-ru
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	if err := LoadConfig("voicy", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "voicy" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Telegram.Token != "from-file" || cfg.Telegram.Mode != "polling" {
		t.Errorf("unexpected telegram config %+v", cfg.Telegram)
	}
	if cfg.Engines.Wit.Tokens["ru"] != "wit-ru" {
		t.Errorf("unexpected wit tokens %v", cfg.Engines.Wit.Tokens)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("name: voicy\ntelegram:\n  token: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TELEGRAM_TOKEN", "from-env")
	t.Setenv("TELEGRAM_WEBHOOK_SECRET", "s3cret")

	var cfg testConfig
	if err := LoadConfig("voicy", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Errorf("expected env override, got %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.WebhookSecret != "s3cret" {
		t.Errorf("expected nested underscore key, got %q", cfg.Telegram.WebhookSecret)
	}
}

func TestLoadConfigMissingFileIsNotAnError(t *testing.T) {
	var cfg testConfig
	fs := &mockFS{files: map[string]bool{}}
	if err := LoadConfig("voicy", &cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadConfigLoadsEnvFile(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./.env": true}}
	var cfg testConfig
	if err := LoadConfig("voicy", &cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(fs.loaded, []string{"./.env"}) {
		t.Errorf("expected .env to be loaded, got %v", fs.loaded)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"HOME", []string{"home"}},
		{"TELEGRAM_TOKEN", []string{"telegram_token", "telegram.token"}},
		{"TELEGRAM_WEBHOOK_SECRET", []string{"telegram_webhook_secret", "telegram.webhook_secret", "telegram.webhook.secret"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := envKeyVariants(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("envKeyVariants(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
