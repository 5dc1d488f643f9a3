// Package provider holds named, swappable backends behind a generic
// request/response contract.
//
// Backends register a Factory under a name; a Manager builds them from their
// config sections, runs each through its decorators and hands them out by
// name. WithResilience wraps a backend with rate limiting, a bulkhead, a
// circuit breaker and retries.
//
//	reg := transcription.NewRegistry()
//	reg.RegisterFactory("wit", wit.Factory())
//	mgr := provider.NewManager(reg, func(e transcription.Engine) transcription.Engine {
//	    return provider.WithResilience(e, cfg.Resilience)
//	})
//	err := mgr.InitializeAll(sections)
//	engine, err := mgr.GetByName("wit")
package provider
