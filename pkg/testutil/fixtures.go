package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/XavierBriggs/Janus/pkg/models"
)

// MemoryCache is an in-memory contracts.CacheStore for tests
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time

	// Err, when set, is returned by every call (simulates an unreachable store)
	Err error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

var _ contracts.CacheStore = (*MemoryCache)(nil)

// NewMemoryCache creates an empty in-memory cache using the wall clock
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock overrides the clock used for expiry
func (c *MemoryCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}

	entry, ok := c.lookup(key)
	if !ok {
		return nil, contracts.ErrCacheMiss
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return c.Err
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	c.entries[key] = memoryEntry{value: stored, expiresAt: c.expiry(ttl)}
	return nil
}

func (c *MemoryCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return 0, c.Err
	}

	entry, ok := c.lookup(key)
	if !ok {
		c.entries[key] = memoryEntry{value: []byte("1"), expiresAt: c.expiry(ttl)}
		return 1, nil
	}

	n, err := strconv.ParseInt(string(entry.value), 10, 64)
	if err != nil {
		return 0, err
	}
	n++
	entry.value = []byte(strconv.FormatInt(n, 10))
	c.entries[key] = entry
	return n, nil
}

func (c *MemoryCache) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Err
}

// Has reports whether key holds a live entry
func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.lookup(key)
	return ok
}

// Raw returns the stored bytes for key
func (c *MemoryCache) Raw(key string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, _ := c.lookup(key)
	return entry.value
}

func (c *MemoryCache) lookup(key string) (memoryEntry, bool) {
	entry, ok := c.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (c *MemoryCache) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(ttl)
}

// NewTestPlayer creates a roster entry
func NewTestPlayer(name, jersey, position, marketValue string) models.Player {
	return models.Player{
		Name:         name,
		JerseyNumber: jersey,
		Position:     position,
		MarketValue:  marketValue,
	}
}

// NewTestMatch creates a match commencing at the given time with the given bookmakers
func NewTestMatch(id, homeTeam, awayTeam string, commence time.Time, bookmakers ...models.Bookmaker) models.Match {
	return models.Match{
		ID:           id,
		SportKey:     "soccer_epl",
		HomeTeam:     homeTeam,
		AwayTeam:     awayTeam,
		CommenceTime: commence,
		Bookmakers:   bookmakers,
	}
}

// NewTestBookmaker creates a bookmaker with a single h2h market
func NewTestBookmaker(key, title string, outcomes ...models.Outcome) models.Bookmaker {
	return models.Bookmaker{
		Name:  key,
		Title: title,
		Markets: []models.H2HMarket{
			{Key: "h2h", Outcomes: outcomes},
		},
	}
}

// NewTestOutcome creates a priced outcome
func NewTestOutcome(name string, price float64) models.Outcome {
	return models.Outcome{Name: name, Price: price}
}
