// Package observability wires OpenTelemetry tracing and metrics for the bot.
//
//	shutdown, err := observability.Setup(ctx, cfg, observability.Service{Name: "voicy"})
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("voicy"))
//	metrics.ObservePipeline(ctx, "wit", "delivered", elapsed)
//
// With tracing disabled the global no-op providers stay in place and every
// helper here is safe to call.
package observability
