// Package cache provides pluggable byte caches for transpile results.
//
// Transpiling is deterministic for a fixed circuit, target, and seed, so the
// serialized output circuit can be cached under a key derived from those
// inputs. The CLI uses FileCache; NullCache disables caching entirely.
package cache

import (
	"context"
	"time"
)

// TTL values for cached entries.
const (
	// TTLTranspile is the lifetime of cached transpile results. Results are
	// fully determined by their key, so the TTL only bounds disk growth.
	TTLTranspile = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiration.
//
// Get returns (nil, false, nil) on a miss; errors are reserved for storage
// failures. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
