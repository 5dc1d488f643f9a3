// Package server hosts the bot's HTTP surface: the Telegram webhook and the
// health probes. It uses Gin behind an h2c handler and plugs into the
// component registry for lifecycle management.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request id generation and propagation into the log context
//   - BodySize: request body size limit
//   - Logging: request logging with duration tracking
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: component health aggregation
//   - /ready: readiness probe
//   - /alive: liveness probe
//   - /version: build version information
package server
