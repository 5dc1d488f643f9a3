package logger

import (
	"fmt"
	"slices"
	"strings"
)

// Config selects level, encoding and destination of the logger.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error fatal"`
	Format    string `yaml:"format" mapstructure:"format" validate:"oneof=json console pretty"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults gives info-level console output to stdout with timestamps.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

var (
	levels  = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	formats = []string{"json", FormatConsole, FormatPretty}
)

// Validate checks level and format. The struct tags carry the same rules for
// configs validated as a whole.
func (c *Config) Validate() error {
	if !slices.Contains(levels, c.Level) {
		return fmt.Errorf("logging.level %q is not one of %s", c.Level, strings.Join(levels, ", "))
	}
	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("logging.format %q is not one of %s", c.Format, strings.Join(formats, ", "))
	}
	return nil
}
