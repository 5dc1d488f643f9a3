package bot

import (
	"fmt"
	"time"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/config"
	"github.com/kbukum/voicy/database"
	"github.com/kbukum/voicy/kafka"
	"github.com/kbukum/voicy/observability"
	"github.com/kbukum/voicy/provider"
	"github.com/kbukum/voicy/redis"
	"github.com/kbukum/voicy/server"
	"github.com/kbukum/voicy/telegram"
	"github.com/kbukum/voicy/transcript"
	"github.com/kbukum/voicy/validation"
)

// Config is the voicy process configuration, loaded from
// cmd/voicy/config.yml and the environment.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Telegram      telegram.Config        `yaml:"telegram" mapstructure:"telegram"`
	Server        server.Config          `yaml:"server" mapstructure:"server"`
	Database      database.Config        `yaml:"database" mapstructure:"database"`
	Redis         redis.Config           `yaml:"redis" mapstructure:"redis"`
	Kafka         kafka.Config           `yaml:"kafka" mapstructure:"kafka"`
	Engines       EnginesConfig          `yaml:"engines" mapstructure:"engines"`
	Promo         transcript.PromoConfig `yaml:"promo" mapstructure:"promo"`
	Pipeline      PipelineConfig         `yaml:"pipeline" mapstructure:"pipeline"`
	Observability observability.Config   `yaml:"observability" mapstructure:"observability"`
}

// EnginesConfig holds the raw engine sections. Each section is decoded by
// the engine's own factory.
type EnginesConfig struct {
	// Timeout bounds one recognition call, download included.
	Timeout    time.Duration             `yaml:"timeout" mapstructure:"timeout"`
	Wit        map[string]any            `yaml:"wit" mapstructure:"wit"`
	Google     map[string]any            `yaml:"google" mapstructure:"google"`
	Resilience provider.ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
}

// PipelineConfig tunes request handling.
type PipelineConfig struct {
	MaxFileSize int64 `yaml:"max_file_size" mapstructure:"max_file_size" validate:"gt=0"`
	// DrainTimeout bounds how long shutdown waits for in-flight requests.
	DrainTimeout time.Duration `yaml:"drain_timeout" mapstructure:"drain_timeout"`
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "voicy"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Telegram.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Kafka.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Promo.ApplyDefaults()

	if c.Engines.Timeout == 0 {
		c.Engines.Timeout = 90 * time.Second
	}
	if c.Pipeline.MaxFileSize == 0 {
		c.Pipeline.MaxFileSize = chat.MaxFileSize
	}
	if c.Pipeline.DrainTimeout == 0 {
		c.Pipeline.DrainTimeout = 10 * time.Second
	}
}

// Validate checks struct tags first, then the cross-section rules.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if !c.Database.Enabled {
		return fmt.Errorf("database.enabled must be true: chats and voices are persisted")
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if err := c.Kafka.Validate(); err != nil {
		return err
	}
	if len(c.Engines.Wit) == 0 {
		return fmt.Errorf("engines.wit is required: it is the default engine")
	}
	if c.Telegram.Mode == telegram.ModeWebhook && !c.Server.Enabled {
		return fmt.Errorf("server.enabled must be true in webhook mode")
	}
	return nil
}
