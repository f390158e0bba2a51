// Package cache stores rendered scenario runs and artifacts.
//
// Playing a scenario is deterministic: the same script and options always
// produce the same frames. The pipeline therefore keys its outputs by a hash
// of the script and the options that affect them, and any [Cache] backend can
// serve a repeat request without replaying.
//
// Backends:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for several preview servers
//   - [MongoCache]: persistent cache with a TTL index
//
// Keys are built by a [Keyer] so every entry point hashes options the same
// way. [WithPrefix] namespaces keys for deployments sharing a backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired key is a miss, not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default lifetimes of cached entries.
const (
	TTLRun      = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)
