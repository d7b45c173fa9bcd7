// Package ratelimit enforces per-user request quotas through the shared cache.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/XavierBriggs/Janus/internal/cache"
	"github.com/XavierBriggs/Janus/pkg/contracts"
)

// Defaults
const (
	DefaultQuota  = 5
	DefaultWindow = 24 * time.Hour
)

// ErrRateLimitExceeded is returned once a caller has used up its quota
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// Limiter counts requests per (user, endpoint) pair in fixed windows
type Limiter struct {
	store  contracts.CacheStore
	quota  int64
	window time.Duration
}

// NewLimiter creates a limiter; non-positive values fall back to the defaults
func NewLimiter(store contracts.CacheStore, quota int, window time.Duration) *Limiter {
	if quota <= 0 {
		quota = DefaultQuota
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{store: store, quota: int64(quota), window: window}
}

// Allow records one request and fails once more than quota requests fall in the window
// The counter is incremented even for rejected requests
func (l *Limiter) Allow(ctx context.Context, uid, endpoint string) error {
	n, err := l.store.Incr(ctx, cache.RateLimitKey(uid, endpoint), l.window)
	if err != nil {
		return fmt.Errorf("rate limit counter: %w", err)
	}
	if n > l.quota {
		return ErrRateLimitExceeded
	}
	return nil
}

// Quota returns the number of requests allowed per window
func (l *Limiter) Quota() int {
	return int(l.quota)
}
