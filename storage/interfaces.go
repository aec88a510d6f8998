package storage

import (
	"context"
	"time"

	"github.com/poiesic/feedrank/core"
)

// Cache is a TTL key/value store for one tier.
// Implementations must be thread-safe and support concurrent access.
type Cache[V any] interface {
	// Get returns the value stored under key. The second result is false on
	// a miss, which includes expired entries and unreadable ones.
	Get(ctx context.Context, key string) (V, bool)

	// Set stores v under key until ttl elapses, replacing any previous value.
	Set(ctx context.Context, key string, v V, ttl time.Duration) error

	// TTL returns the tier's configured time-to-live.
	TTL() time.Duration
}

// TTLs holds the time-to-live of each tier.
type TTLs struct {
	Feed    time.Duration
	Article time.Duration
	Intent  time.Duration
}

// DefaultTTLs returns the default tier lifetimes.
func DefaultTTLs() TTLs {
	return TTLs{
		Feed:    time.Hour,
		Article: 24 * time.Hour,
		Intent:  15 * time.Minute,
	}
}

// Validate checks that every TTL is positive.
func (t TTLs) Validate() error {
	if t.Feed <= 0 || t.Article <= 0 || t.Intent <= 0 {
		return ErrInvalidTTL
	}
	return nil
}

// Tiers groups the three independent cache namespaces.
type Tiers struct {
	Feeds    Cache[[]core.Document]
	Articles Cache[string]
	Intents  Cache[[]core.Document]
}
