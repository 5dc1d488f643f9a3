package logger

import "sync"

// registry owns the process-wide logger and the per-component overrides.
// Component loggers are resolved on every Get, so packages that call Get
// after Init pick up the configured level and format.
var registry struct {
	mu     sync.RWMutex
	global *Logger
	named  map[string]*Logger
}

// SetGlobalLogger replaces the process-wide logger.
func SetGlobalLogger(l *Logger) {
	registry.mu.Lock()
	registry.global = l
	registry.mu.Unlock()
}

// GetGlobalLogger returns the process-wide logger, creating a console
// logger on first use.
func GetGlobalLogger() *Logger {
	registry.mu.RLock()
	l := registry.global
	registry.mu.RUnlock()
	if l != nil {
		return l
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if registry.global == nil {
		registry.global = NewDefault("voicy")
	}
	return registry.global
}

// Register pins the logger Get returns for name, e.g. Nop() for a noisy
// component in tests.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if registry.named == nil {
		registry.named = make(map[string]*Logger)
	}
	registry.named[name] = l
}

// Get returns the logger registered for name, or the global logger tagged
// with component=name.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.named[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}
