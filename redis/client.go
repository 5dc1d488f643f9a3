package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/voicy/logger"
)

// Client is the small key/value surface the chat cache needs.
type Client struct {
	rdb       *goredis.Client
	addr      string
	closeOnce sync.Once
	closeErr  error
}

// New builds a Client from cfg without dialing. Use Ping to check the server.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}
	logger.Get("redis").Debug("redis client created", logger.Fields("addr", cfg.Addr, "db", cfg.DB))
	return &Client{rdb: goredis.NewClient(opts), addr: cfg.Addr}, nil
}

func (c Config) options() (*goredis.Options, error) {
	opts := &goredis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
		MaxRetries:   c.MaxRetries,
	}
	timeouts := []struct {
		raw string
		dst *time.Duration
	}{
		{c.DialTimeout, &opts.DialTimeout},
		{c.ReadTimeout, &opts.ReadTimeout},
		{c.WriteTimeout, &opts.WriteTimeout},
	}
	for _, t := range timeouts {
		d, err := time.ParseDuration(t.raw)
		if err != nil {
			return nil, fmt.Errorf("redis timeout %q: %w", t.raw, err)
		}
		*t.dst = d
	}
	return opts, nil
}

// Ping round-trips to the server.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.addr, err)
	}
	return nil
}

// Fetch returns the raw value at key. A missing key reports ok=false with no error.
func (c *Client) Fetch(ctx context.Context, key string) (data []byte, ok bool, err error) {
	data, err = c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, goredis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return data, true, nil
}

// Store writes value at key. A zero ttl never expires.
func (c *Client) Store(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Remove deletes keys; missing keys are ignored.
func (c *Client) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close releases the connection pool. Later calls return the first result.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.closeOnce.Do(func() { c.closeErr = c.rdb.Close() })
	return c.closeErr
}
