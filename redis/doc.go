// Package redis wraps go-redis as a lifecycle component and offers
// TypedStore, a JSON value store used to cache chat snapshots.
package redis
