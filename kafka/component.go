package kafka

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kbukum/voicy/component"
	"github.com/kbukum/voicy/logger"
)

var _ component.Component = (*Component)(nil)

// Component owns the report producer's lifecycle.
type Component struct {
	cfg      Config
	log      *logger.Logger
	mu       sync.Mutex
	producer *Producer
}

// NewComponent creates a Kafka component.
func NewComponent(cfg Config) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: logger.Get("kafka")}
}

// Producer returns the producer, or nil before Start.
func (c *Component) Producer() *Producer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.producer
}

// Name implements component.Component.
func (c *Component) Name() string { return "kafka" }

// Start creates the producer. Brokers are contacted lazily on first write.
func (c *Component) Start(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.producer != nil {
		return nil
	}
	p, err := NewProducer(c.cfg)
	if err != nil {
		return fmt.Errorf("kafka start: %w", err)
	}
	c.producer = p
	c.log.Info("kafka producer ready", logger.Fields("brokers", c.cfg.Brokers, "topic", c.cfg.Topic))
	return nil
}

// Stop flushes and closes the producer.
func (c *Component) Stop(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.producer == nil {
		return nil
	}
	err := c.producer.Close()
	c.producer = nil
	return err
}

// Health dials the first broker.
func (c *Component) Health(ctx context.Context) component.Health {
	p := c.Producer()
	if p == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "kafka not started"}
	}
	dialer, err := CreateDialer(&c.cfg)
	if err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Brokers[0])
	if err != nil {
		// reports still go to the log sink
		return component.Health{Name: c.Name(), Status: component.StatusDegraded, Message: fmt.Sprintf("broker unreachable: %v", err)}
	}
	_ = conn.Close()
	m := p.Metrics()
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("messages=%d errors=%d", m.Messages, m.Errors),
	}
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Kafka",
		Type:    "kafka",
		Details: fmt.Sprintf("%s topic=%s", strings.Join(c.cfg.Brokers, ","), c.cfg.Topic),
	}
}
