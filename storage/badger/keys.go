package badger

import (
	"encoding/binary"
	"time"

	"github.com/poiesic/feedrank/storage"
)

// Key prefixes for the cache tiers
const (
	feedPrefix    = "feed"
	articlePrefix = "article"
	intentPrefix  = "intent"
)

// expiryHeaderSize is the length of the expiry timestamp stored ahead of
// every cached value.
const expiryHeaderSize = 8

// makeCacheKey generates a namespaced key.
// Format: prefix:key
func makeCacheKey(prefix, key string) []byte {
	buf := make([]byte, len(prefix)+1+len(key))
	offset := copy(buf, prefix)
	buf[offset] = ':'
	copy(buf[offset+1:], key)
	return buf
}

// sealValue prepends the absolute expiry (unix nanoseconds, big endian) to payload.
func sealValue(expiresAt time.Time, payload []byte) []byte {
	buf := make([]byte, expiryHeaderSize+len(payload))
	binary.BigEndian.PutUint64(buf, uint64(expiresAt.UnixNano()))
	copy(buf[expiryHeaderSize:], payload)
	return buf
}

// openValue splits a sealed value into its expiry and payload.
func openValue(value []byte) (time.Time, []byte, error) {
	if len(value) < expiryHeaderSize {
		return time.Time{}, nil, storage.ErrTruncatedData
	}
	expiresAt := time.Unix(0, int64(binary.BigEndian.Uint64(value)))
	return expiresAt, value[expiryHeaderSize:], nil
}
