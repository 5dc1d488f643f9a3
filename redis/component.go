package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/voicy/component"
	"github.com/kbukum/voicy/logger"
)

var _ component.Component = (*Component)(nil)

// Component wraps Client for registry lifecycle management.
type Component struct {
	client *Client
	cfg    Config
	log    *logger.Logger
}

// NewComponent creates a Redis component.
func NewComponent(cfg Config) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: logger.Get("redis")}
}

// Client returns the underlying *Client, or nil before Start.
func (c *Component) Client() *Client {
	return c.client
}

// Name implements component.Component.
func (c *Component) Name() string { return "redis" }

// Start creates the client and verifies connectivity.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg)
	if err != nil {
		return fmt.Errorf("redis start: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis start: %w", err)
	}
	c.client = client
	c.log.Info("redis connected", logger.Fields("addr", c.cfg.Addr))
	return nil
}

// Stop closes the connection.
func (c *Component) Stop(_ context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Health pings Redis.
func (c *Component) Health(ctx context.Context) component.Health {
	var ping func(context.Context) error
	if c.client != nil {
		ping = c.client.Ping
	}
	return component.Check(ctx, c.Name(), ping)
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: fmt.Sprintf("%s db=%d chat_ttl=%s", c.cfg.Addr, c.cfg.DB, c.cfg.ChatTTL),
	}
}
