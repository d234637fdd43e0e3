package common

import (
	"context"
	"time"
)

// CacheInterface defines the contract for cache implementations.
// Values are strings so both backends round-trip identically; callers
// serialize structured values themselves.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(ctx context.Context, key string, value string, duration time.Duration)

	// Get retrieves a value from cache by key
	Get(ctx context.Context, key string) (string, bool)

	// Delete removes a value from cache by key
	Delete(ctx context.Context, key string)

	// GetOrSet retrieves a value from cache, or loads it using the loader function if not found
	GetOrSet(ctx context.Context, key string, duration time.Duration, loader func() (string, error)) (string, error)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

func getOrSet(ctx context.Context, c CacheInterface, key string, duration time.Duration, loader func() (string, error)) (string, error) {
	if val, found := c.Get(ctx, key); found {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return "", err
	}

	c.Set(ctx, key, val, duration)
	return val, nil
}
