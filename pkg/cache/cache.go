// Package cache stores computed results keyed by their inputs.
//
// A fannkuch result depends only on n, so a finished computation never has
// to be repeated. Rendered flip traces are cached the same way. Backends:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the API server
//
// Keys are produced by a [Keyer], so callers never build key strings by hand:
//
//	keyer := cache.NewDefaultKeyer()
//	data, hit, err := c.Get(ctx, keyer.ResultKey(10))
package cache

import (
	"context"
	"time"
)

// TTLs per entry kind. Results are deterministic, so they only expire to
// bound storage.
const (
	TTLResult = 30 * 24 * time.Hour
	TTLTrace  = 7 * 24 * time.Hour
)

// EngineVersion is mixed into every key. Bump it whenever a change to the
// engine could alter a result, so stale entries are never served.
const EngineVersion = "fannkuch-redux/1"

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey is the key of the aggregated result for size n.
	ResultKey(n int) string

	// TraceKey is the key of a rendered flip trace.
	TraceKey(n, index int, format string) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey returns "result:<sha256(engine, n)>".
func (DefaultKeyer) ResultKey(n int) string {
	return digestKey("result", EngineVersion, n)
}

// TraceKey returns "trace:<sha256(engine, n, index, format)>".
func (DefaultKeyer) TraceKey(n, index int, format string) string {
	return digestKey("trace", EngineVersion, n, index, format)
}
