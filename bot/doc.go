// Package bot assembles the voicy process: configuration, the recognition
// engines, the update dispatcher and the pipeline service component.
//
// The service is fed by either telegram.Poller or the webhook route of
// server.Server; both call Service.HandleUpdate. Each qualifying message is
// processed in its own goroutine, and shutdown drains in-flight messages
// within pipeline.drain_timeout.
package bot
