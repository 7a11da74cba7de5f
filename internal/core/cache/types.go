// Package cache provides the cache type constants.
package cache

// Type represents the type of cache backend.
type Type string

const (
	// TypeRedis represents a Redis cache shared by all service instances.
	TypeRedis Type = "redis"
	// TypeMemory represents an in-process cache for local runs and tools.
	TypeMemory Type = "memory"
)
