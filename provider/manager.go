package provider

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/kbukum/voicy/logger"
)

// Decorator wraps every backend a Manager initializes, e.g. with
// WithResilience.
type Decorator[T Provider] func(T) T

// Manager builds backends from a Registry and serves them by name.
type Manager[T Provider] struct {
	registry   *Registry[T]
	decorators []Decorator[T]
	log        *logger.Logger

	mu        sync.RWMutex
	providers map[string]T
}

// NewManager creates a Manager backed by registry. Decorators apply in
// order, so the last one is outermost.
func NewManager[T Provider](registry *Registry[T], decorators ...Decorator[T]) *Manager[T] {
	return &Manager[T]{
		registry:   registry,
		decorators: decorators,
		providers:  make(map[string]T),
		log:        logger.Get("provider"),
	}
}

// Initialize builds the named backend from cfg, decorates it and keeps it
// for GetByName.
func (m *Manager[T]) Initialize(name string, cfg map[string]any) error {
	instance, err := m.registry.Create(name, cfg)
	if err != nil {
		return fmt.Errorf("initialize %s: %w", name, err)
	}
	for _, decorate := range m.decorators {
		instance = decorate(instance)
	}
	m.Add(name, instance)
	return nil
}

// InitializeAll builds every registered backend. A backend without a
// section gets an empty config and its factory's defaults.
func (m *Manager[T]) InitializeAll(sections map[string]map[string]any) error {
	for _, name := range m.registry.List() {
		cfg := sections[name]
		if cfg == nil {
			cfg = map[string]any{}
		}
		if err := m.Initialize(name, cfg); err != nil {
			return err
		}
	}
	return nil
}

// Add stores a backend as is, bypassing the registry and the decorators.
func (m *Manager[T]) Add(name string, instance T) {
	m.mu.Lock()
	m.providers[name] = instance
	m.mu.Unlock()
	m.log.Info("provider initialized", logger.Fields("provider", name))
}

// GetByName returns an initialized backend.
func (m *Manager[T]) GetByName(name string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.providers[name]; ok {
		return p, nil
	}
	var zero T
	return zero, fmt.Errorf("provider %q is not initialized", name)
}

// Available returns the initialized names in sorted order.
func (m *Manager[T]) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.providers))
}
