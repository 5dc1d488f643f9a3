package provider

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/voicy/errors"
	"github.com/kbukum/voicy/resilience"
)

// ResilienceConfig bundles optional policies. Nil fields are skipped.
type ResilienceConfig struct {
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	Retry          *resilience.RetryConfig          `yaml:"retry" mapstructure:"retry"`
	RateLimiter    *resilience.RateLimiterConfig    `yaml:"rate_limiter" mapstructure:"rate_limiter"`
	Bulkhead       *resilience.BulkheadConfig       `yaml:"bulkhead" mapstructure:"bulkhead"`
}

// IsEmpty returns true if no policy is configured.
func (c ResilienceConfig) IsEmpty() bool {
	return c.CircuitBreaker == nil && c.Retry == nil && c.RateLimiter == nil && c.Bulkhead == nil
}

// ResilienceState holds the primitives built from a ResilienceConfig.
type ResilienceState struct {
	cb    *resilience.CircuitBreaker
	rl    *resilience.RateLimiter
	bh    *resilience.Bulkhead
	retry *resilience.RetryConfig
}

// BuildResilience creates the primitives for cfg, or nil when cfg is empty.
func BuildResilience(name string, cfg ResilienceConfig) *ResilienceState {
	if cfg.IsEmpty() {
		return nil
	}
	s := &ResilienceState{retry: cfg.Retry}
	if cfg.CircuitBreaker != nil {
		cbCfg := *cfg.CircuitBreaker
		cbCfg.Name = name
		if cbCfg.IsFailure == nil {
			// A rejected key or unusable audio belongs to one chat and must
			// not trip the breaker shared by every chat on the engine.
			cbCfg.IsFailure = resilience.Retryable
		}
		s.cb = resilience.NewCircuitBreaker(cbCfg)
	}
	if cfg.RateLimiter != nil {
		s.rl = resilience.NewRateLimiter(*cfg.RateLimiter)
	}
	if cfg.Bulkhead != nil {
		s.bh = resilience.NewBulkhead(*cfg.Bulkhead)
	}
	return s
}

// WithResilience wraps p so every Execute runs through
// RateLimiter -> Bulkhead -> CircuitBreaker -> Retry.
func WithResilience[I, O any](p RequestResponse[I, O], cfg ResilienceConfig) RequestResponse[I, O] {
	state := BuildResilience(p.Name(), cfg)
	if state == nil {
		return p
	}
	return &resilientRR[I, O]{inner: p, state: state}
}

type resilientRR[I, O any] struct {
	inner RequestResponse[I, O]
	state *ResilienceState
}

func (r *resilientRR[I, O]) Name() string                         { return r.inner.Name() }
func (r *resilientRR[I, O]) IsAvailable(ctx context.Context) bool { return r.inner.IsAvailable(ctx) }

func (r *resilientRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return ExecuteWithResilience(ctx, r.state, func(ctx context.Context) (O, error) {
		return r.inner.Execute(ctx, input)
	})
}

// ExecuteWithResilience runs fn through the chain held by s. A nil s calls fn directly.
func ExecuteWithResilience[T any](ctx context.Context, s *ResilienceState, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if s == nil {
		return fn(ctx)
	}
	if s.rl != nil {
		if err := s.rl.Wait(ctx); err != nil {
			return zero, wrapResilienceError(err)
		}
	}

	call := fn
	if s.retry != nil {
		cfg := *s.retry
		call = func(ctx context.Context) (T, error) { return resilience.Retry(ctx, cfg, fn) }
	}
	if s.cb != nil {
		inner := call
		call = func(ctx context.Context) (T, error) {
			var result T
			var callErr error
			cbErr := s.cb.Execute(func() error {
				result, callErr = inner(ctx)
				return callErr
			})
			if callErr == nil && cbErr != nil {
				return zero, wrapResilienceError(cbErr)
			}
			return result, callErr
		}
	}
	if s.bh == nil {
		return call(ctx)
	}

	var result T
	var callErr error
	bhErr := s.bh.Execute(ctx, func() error {
		result, callErr = call(ctx)
		return callErr
	})
	if callErr == nil && bhErr != nil {
		return zero, wrapResilienceError(bhErr)
	}
	return result, callErr
}

func wrapResilienceError(err error) error {
	switch {
	case stderrors.Is(err, resilience.ErrCircuitOpen):
		return errors.ServiceUnavailable("provider").WithCause(err)
	case stderrors.Is(err, resilience.ErrBulkheadFull):
		return errors.RateLimited().WithCause(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Timeout("provider").WithCause(err)
	default:
		return err
	}
}
