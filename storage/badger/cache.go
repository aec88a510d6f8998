package badger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/feedrank/storage"
)

// ttlSlack pads the native badger TTL, which has one-second granularity,
// so the store never drops an entry before its sealed expiry.
const ttlSlack = time.Second

// CacheStore is a storage.Cache backed by one key namespace of a Backend.
// Expiry is checked against the stored timestamp on every read; badger's
// native TTL only reclaims space.
type CacheStore[V any] struct {
	backend *Backend
	prefix  string
	codec   storage.Codec[V]
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

type cacheOptions struct {
	now    func() time.Time
	logger *slog.Logger
}

// CacheOption configures a CacheStore.
type CacheOption func(*cacheOptions) error

// WithClock sets the time source used for expiry.
// Default is time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(o *cacheOptions) error {
		if now == nil {
			now = time.Now
		}
		o.now = now
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) CacheOption {
	return func(o *cacheOptions) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewCacheStore creates a cache over backend under the given key prefix.
func NewCacheStore[V any](backend *Backend, prefix string, codec storage.Codec[V], ttl time.Duration, opts ...CacheOption) (*CacheStore[V], error) {
	if ttl <= 0 {
		return nil, storage.ErrInvalidTTL
	}
	o := cacheOptions{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	return &CacheStore[V]{
		backend: backend,
		prefix:  prefix,
		codec:   codec,
		ttl:     ttl,
		now:     o.now,
		logger:  o.logger.With("component", "cache", "tier", prefix),
	}, nil
}

var _ storage.Cache[string] = (*CacheStore[string])(nil)

// TTL returns the tier's configured time-to-live.
func (c *CacheStore[V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached value for key. Missing, expired, and unreadable
// entries are all misses; store failures are logged, never returned.
func (c *CacheStore[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	if ctx.Err() != nil {
		return zero, false
	}

	payload, err := c.read(key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, storage.ErrExpired) {
			c.logger.Warn("cache read failed, treating as miss", "key", key, "err", err)
		}
		return zero, false
	}

	v, err := c.codec.Unmarshal(payload)
	if err != nil {
		c.logger.Warn("cache entry unreadable, treating as miss", "key", key, "err", err)
		return zero, false
	}
	return v, true
}

func (c *CacheStore[V]) read(key string) ([]byte, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var payload []byte
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCacheKey(c.prefix, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			expiresAt, body, err := openValue(val)
			if err != nil {
				return err
			}
			if !c.now().Before(expiresAt) {
				return storage.ErrExpired
			}
			payload = append([]byte(nil), body...)
			return nil
		})
	}, false)
	return payload, err
}

// Set stores v under key for ttl.
func (c *CacheStore[V]) Set(ctx context.Context, key string, v V, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		return storage.ErrInvalidTTL
	}
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	value := sealValue(c.now().Add(ttl), c.codec.Marshal(v))
	entry := badger.NewEntry(makeCacheKey(c.prefix, key), value).WithTTL(ttl + ttlSlack)
	return c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
