package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// TypedStore stores JSON-encoded values of one type under a key prefix.
type TypedStore[V any] struct {
	client    *Client
	keyPrefix string
}

// NewTypedStore creates a TypedStore. Keys are stored as "<prefix>:<key>".
func NewTypedStore[V any](client *Client, keyPrefix string) *TypedStore[V] {
	return &TypedStore[V]{client: client, keyPrefix: keyPrefix}
}

func (s *TypedStore[V]) fullKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}

// Load decodes the value at key. It returns (nil, nil) for a missing key.
func (s *TypedStore[V]) Load(ctx context.Context, key string) (*V, error) {
	raw, ok, err := s.client.Fetch(ctx, s.fullKey(key))
	if err != nil {
		return nil, fmt.Errorf("typed store load %q: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	var val V
	if err := json.Unmarshal(raw, &val); err != nil {
		return nil, fmt.Errorf("typed store unmarshal %q: %w", key, err)
	}
	return &val, nil
}

// Save encodes val and stores it with ttl. Zero ttl means no expiration.
func (s *TypedStore[V]) Save(ctx context.Context, key string, val *V, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("typed store marshal %q: %w", key, err)
	}
	if err := s.client.Store(ctx, s.fullKey(key), data, ttl); err != nil {
		return fmt.Errorf("typed store save %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *TypedStore[V]) Delete(ctx context.Context, key string) error {
	if err := s.client.Remove(ctx, s.fullKey(key)); err != nil {
		return fmt.Errorf("typed store delete %q: %w", key, err)
	}
	return nil
}
