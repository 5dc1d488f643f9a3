package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Output formats besides JSON.
const (
	FormatConsole = "console"
	FormatPretty  = "pretty"
)

// Logger is an immutable zerolog logger; every With* returns a copy.
type Logger struct {
	zl zerolog.Logger
}

// Init builds the process-wide logger from cfg.
func Init(cfg Config, serviceName string) {
	cfg.ApplyDefaults()
	SetGlobalLogger(New(&cfg, serviceName))
}

// New writes to cfg.Output, stdout unless it names stderr.
func New(cfg *Config, serviceName string) *Logger {
	var out io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		out = os.Stderr
	}
	return NewWithWriter(cfg, serviceName, out)
}

// NewWithWriter writes to w. An unknown level falls back to info.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	switch strings.ToLower(cfg.Format) {
	case FormatConsole, FormatPretty:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: cfg.NoColor}
	}

	zc := zerolog.New(w).Level(level).With()
	if serviceName != "" {
		zc = zc.Str("service", serviceName)
	}
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	return &Logger{zl: zc.Logger()}
}

// NewDefault is a console logger at info level.
func NewDefault(serviceName string) *Logger {
	var cfg Config
	cfg.ApplyDefaults()
	return New(&cfg, serviceName)
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) derive(add func(zerolog.Context) zerolog.Context) *Logger {
	return &Logger{zl: add(l.zl.With()).Logger()}
}

func (l *Logger) WithComponent(name string) *Logger {
	return l.derive(func(zc zerolog.Context) zerolog.Context { return zc.Str(FieldComponent, name) })
}

func (l *Logger) WithFields(fields map[string]any) *Logger {
	return l.derive(func(zc zerolog.Context) zerolog.Context { return zc.Fields(fields) })
}

func (l *Logger) WithError(err error) *Logger {
	return l.derive(func(zc zerolog.Context) zerolog.Context { return zc.Err(err) })
}

// Zerolog returns the wrapped logger for libraries that want one.
func (l *Logger) Zerolog() zerolog.Logger { return l.zl }

func (l *Logger) Debug(msg string, fields ...map[string]any) { emit(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...map[string]any)  { emit(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]any)  { emit(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...map[string]any) { emit(l.zl.Error(), msg, fields) }

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, fields ...map[string]any) { emit(l.zl.Fatal(), msg, fields) }

// Info logs through the global logger.
func Info(msg string, fields ...map[string]any) { GetGlobalLogger().Info(msg, fields...) }

// Warn logs through the global logger.
func Warn(msg string, fields ...map[string]any) { GetGlobalLogger().Warn(msg, fields...) }

func emit(e *zerolog.Event, msg string, fields []map[string]any) {
	for _, f := range fields {
		e.Fields(f)
	}
	e.Msg(msg)
}
