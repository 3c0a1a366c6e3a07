package common

import "time"

// CacheInterface defines the contract for cache implementations.
// Values are stored as JSON so callers never share memory with the cache and
// both backends behave the same way.
type CacheInterface interface {
	// Set stores value under key for the given duration
	Set(key string, value interface{}, duration time.Duration)

	// Get decodes the value stored under key into dest.
	// Returns false on a miss or when the stored value cannot be decoded.
	Get(key string, dest interface{}) bool

	// Delete removes a value from cache by key
	Delete(key string)

	// Keys lists the live keys that start with prefix
	Keys(prefix string) []string

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}
