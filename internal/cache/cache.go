// Package cache provides the result caching layer for the promotion API.
//
// Evaluating a promotion is cheap, but checkout paths call the same
// (promotion, cart) pairs repeatedly; caching serialized results by
// definition checksum plus context digest removes the repeat work. Two
// implementations exist: an in-process cache for single-instance
// deployments and a Redis cache for fleets that must agree on entries.
package cache

import "context"

// Service defines the interface for cache operations. Values are opaque
// serialized bytes; callers own the encoding.
type Service interface {
	// Get returns the cached value for key, and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for the cache's configured TTL.
	Set(ctx context.Context, key string, value []byte) error

	// Del removes key from the cache.
	Del(ctx context.Context, key string) error

	// Close releases the cache's resources.
	Close() error
}
