package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by CacheStore.Get when the key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

// CacheStore is the key-value cache shared by every component
// Values are complete snapshots; writers never read-modify-write a key
type CacheStore interface {
	// Get returns the stored value or ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value with the given expiry (0 = no expiry)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Incr atomically increments a counter, setting ttl when the counter is created
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Ping checks the store is reachable
	Ping(ctx context.Context) error
}
