// Package cache provides the shared key-value cache used for exchange
// rates and memoized analytics results. Entries are idempotent for their
// TTL window, so concurrent overwrites are harmless (last write wins).
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns the cached value and whether the key was present and
	// unexpired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key for ttl. A non-positive ttl means no
	// expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
