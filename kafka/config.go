package kafka

import (
	"fmt"
	"time"

	"github.com/kbukum/voicy/validation"
)

// Config is the fault-report producer connection.
type Config struct {
	Enabled bool     `yaml:"enabled" mapstructure:"enabled"`
	Brokers []string `yaml:"brokers" mapstructure:"brokers" validate:"required_if=Enabled true,dive,hostname_port"`
	// Topic receives one JSON document per reported fault.
	Topic string `yaml:"topic" mapstructure:"topic" validate:"required_if=Enabled true"`

	EnableTLS     bool   `yaml:"enable_tls" mapstructure:"enable_tls"`
	TLSSkipVerify bool   `yaml:"tls_skip_verify" mapstructure:"tls_skip_verify"`
	TLSCAFile     string `yaml:"tls_ca_file" mapstructure:"tls_ca_file"`

	EnableSASL    bool   `yaml:"enable_sasl" mapstructure:"enable_sasl"`
	SASLMechanism string `yaml:"sasl_mechanism" mapstructure:"sasl_mechanism"`
	Username      string `yaml:"username" mapstructure:"username" validate:"required_if=EnableSASL true"`
	Password      string `yaml:"password" mapstructure:"password"`

	// Compression is one of none, gzip, snappy, lz4, zstd.
	Compression  string        `yaml:"compression" mapstructure:"compression"`
	Retries      int           `yaml:"retries" mapstructure:"retries" validate:"gte=0"`
	BatchSize    int           `yaml:"batch_size" mapstructure:"batch_size"`
	BatchTimeout time.Duration `yaml:"batch_timeout" mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"`
	RequiredAcks int           `yaml:"required_acks" mapstructure:"required_acks" validate:"oneof=-1 0 1"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MetadataTTL  time.Duration `yaml:"metadata_ttl" mapstructure:"metadata_ttl"`
}

// ApplyDefaults sets defaults for zero-valued fields. Reports are rare, so
// each one is flushed on its own.
func (c *Config) ApplyDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	defaults := []struct {
		dst *time.Duration
		val time.Duration
	}{
		{&c.BatchTimeout, 100 * time.Millisecond},
		{&c.WriteTimeout, 10 * time.Second},
		{&c.DialTimeout, 10 * time.Second},
		{&c.IdleTimeout, 30 * time.Second},
		{&c.MetadataTTL, 6 * time.Second},
	}
	for _, d := range defaults {
		if *d.dst == 0 {
			*d.dst = d.val
		}
	}
	if c.Topic == "" {
		c.Topic = "voicy.errors"
	}
	if c.Compression == "" {
		c.Compression = "snappy"
	}
	if c.Retries <= 0 {
		c.Retries = 3
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 1
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = 1
	}
	if c.EnableSASL && c.SASLMechanism == "" {
		c.SASLMechanism = "PLAIN"
	}
}

// Validate checks the tags, then the SASL mechanism. A disabled producer
// is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("kafka: %w", err)
	}
	if c.EnableSASL {
		if _, ok := saslMechanisms[c.SASLMechanism]; !ok {
			return fmt.Errorf("kafka: unsupported SASL mechanism %q", c.SASLMechanism)
		}
	}
	return nil
}
