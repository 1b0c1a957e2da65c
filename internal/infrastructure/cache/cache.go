package cache

import (
	"context"
	"time"
)

// Cache is the key-value surface used for progress snapshots and stats.
// Implementations: Redis for multi-instance deployments, MemoryStore as the
// in-process fallback when no Redis is configured.
type Cache interface {
	// Get retrieves a value; the bool reports whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value with expiration
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error

	// Close releases backend resources
	Close() error
}
