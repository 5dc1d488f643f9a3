package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures a token bucket.
type RateLimiterConfig struct {
	// Rate is the sustained number of tokens per second.
	Rate float64 `yaml:"rate" mapstructure:"rate"`
	// Burst is the bucket size.
	Burst int `yaml:"burst" mapstructure:"burst"`
}

// RateLimiter is a token bucket. Wait reserves a token and sleeps until it
// becomes available, so concurrent waiters are served in reservation order.
type RateLimiter struct {
	rate  float64
	burst float64
	now   func() time.Time

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a full bucket.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return newRateLimiter(cfg, time.Now)
}

func newRateLimiter(cfg RateLimiterConfig, now func() time.Time) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = max(1, int(cfg.Rate))
	}
	return &RateLimiter{
		rate:   cfg.Rate,
		burst:  float64(cfg.Burst),
		now:    now,
		tokens: float64(cfg.Burst),
		last:   now(),
	}
}

// Allow takes a token if one is available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	delay := rl.reserve()
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		rl.cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// reserve takes a token, going into debt if needed, and returns how long
// the caller must wait for it.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	rl.tokens--
	if rl.tokens >= 0 {
		return 0
	}
	return time.Duration(-rl.tokens / rl.rate * float64(time.Second))
}

func (rl *RateLimiter) cancel() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = min(rl.tokens+1, rl.burst)
}

func (rl *RateLimiter) refill() {
	now := rl.now()
	rl.tokens = min(rl.burst, rl.tokens+now.Sub(rl.last).Seconds()*rl.rate)
	rl.last = now
}

func (rl *RateLimiter) idleSince() time.Time {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.last
}

// KeyedRateLimiter applies a shared bucket plus one bucket per key, e.g. a
// global send limit and a per-chat limit.
type KeyedRateLimiter struct {
	global *RateLimiter
	perKey RateLimiterConfig
	idle   time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*RateLimiter
}

// NewKeyedRateLimiter creates a limiter. Buckets unused for longer than
// idle are dropped; zero keeps them for ten minutes.
func NewKeyedRateLimiter(global, perKey RateLimiterConfig, idle time.Duration) *KeyedRateLimiter {
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	return &KeyedRateLimiter{
		global:  NewRateLimiter(global),
		perKey:  perKey,
		idle:    idle,
		now:     time.Now,
		buckets: make(map[string]*RateLimiter),
	}
}

// Wait blocks on the key's bucket, then on the global bucket.
func (k *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	if err := k.bucket(key).Wait(ctx); err != nil {
		return err
	}
	return k.global.Wait(ctx)
}

// Len returns the number of tracked keys.
func (k *KeyedRateLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

func (k *KeyedRateLimiter) bucket(key string) *RateLimiter {
	k.mu.Lock()
	defer k.mu.Unlock()
	if b, ok := k.buckets[key]; ok {
		return b
	}
	k.prune()
	b := newRateLimiter(k.perKey, k.now)
	k.buckets[key] = b
	return b
}

// prune drops idle buckets. Caller holds mu.
func (k *KeyedRateLimiter) prune() {
	cutoff := k.now().Add(-k.idle)
	for key, b := range k.buckets {
		if b.idleSince().Before(cutoff) {
			delete(k.buckets, key)
		}
	}
}
