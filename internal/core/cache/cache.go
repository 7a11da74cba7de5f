// Package cache defines the cache backend interface.
package cache

import (
	"context"
	"time"
)

// Cache is a keyed blob store with per-key expiry. Implementations must be
// safe for concurrent use; a Set fully replaces the previous value.
type Cache interface {
	// Get retrieves a value by key.
	// Returns nil (and no error) if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value that expires after ttl. A ttl of 0 never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// DeletePattern removes all keys matching a glob pattern.
	// Returns the number of keys deleted.
	DeletePattern(ctx context.Context, pattern string) (int64, error)

	// Ping checks if the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}
