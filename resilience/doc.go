// Package resilience provides the fault-tolerance primitives used around
// the Telegram Bot API and the transcription engines.
//
//   - Retry: exponential backoff with jitter, driven by AppError.Retryable
//   - CircuitBreaker: fails fast while an engine keeps failing
//   - RateLimiter / KeyedRateLimiter: token buckets for the global and per-chat send limits
//   - Bulkhead: caps concurrent calls into one engine
//
// They compose from the outside in:
//
//	err := cb.Execute(func() error {
//	    return bh.Execute(ctx, func() error {
//	        return resilience.Do(ctx, retryCfg, call)
//	    })
//	})
package resilience
