package cache

import (
	"context"
	"fmt"
	"time"
)

// Store provides TTL-scoped caching for analysis intermediates, such as
// code-reference search results.
type Store interface {
	// Get retrieves a value by key; returns ErrKeyNotFound on a miss.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Close releases the backing resources.
	Close() error
}

// ErrKeyNotFound indicates a cache miss.
type ErrKeyNotFound struct {
	Key string
}

func (e ErrKeyNotFound) Error() string {
	return fmt.Sprintf("cache key not found: %s", e.Key)
}

// IsMiss reports whether the error is a cache miss.
func IsMiss(err error) bool {
	_, ok := err.(ErrKeyNotFound)
	return ok
}
