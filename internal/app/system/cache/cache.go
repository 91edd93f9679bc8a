// Package cache holds short-lived copies of expensive backend reads
// (aggregate counts, listings) so repeated admin page loads do not re-run
// metered queries.
//
// Expiry is lazy: entries are only checked and evicted when read. There is
// no background sweep.
package cache

import (
	"context"
	"time"
)

// Store is the cache contract shared by the in-process and Redis backends.
type Store interface {
	// Get returns the value for key if present and not expired.
	Get(ctx context.Context, key string) (any, bool)
	// Set stores value under key until now+ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	// Clear removes the given keys, or every entry when called with none.
	Clear(ctx context.Context, keys ...string)
}

// Clock abstracts wall-clock time so expiry can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Minutes converts a TTL expressed in minutes.
func Minutes(n int) time.Duration { return time.Duration(n) * time.Minute }
