// Package component defines lifecycle-managed infrastructure: the database,
// the cache, the report producer, the HTTP server and the update poller all
// implement Component and are started and stopped by a Registry.
package component
