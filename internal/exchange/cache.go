package exchange

import (
	"context"
	"sync"
	"time"
)

const DefaultTTL = 5 * time.Minute

// Cache keeps one rate table per base currency for a fixed window. The
// clock and the fetcher are injectable so tests run against fakes instead
// of shared process state.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]RateTable
	ttl     time.Duration
	now     func() time.Time
	fetcher Fetcher
}

func NewCache(fetcher Fetcher, ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]RateTable),
		ttl:     ttl,
		now:     time.Now,
		fetcher: fetcher,
	}
}

// WithClock replaces the cache's time source. Test hook.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// GetOrFetch returns the cached table for base when it is younger than the
// TTL, otherwise fetches, overwrites the entry and returns the fresh
// table. Concurrent callers racing past an expired entry may both fetch;
// the overwrite is idempotent so last write wins. Expired entries are
// never served, even when the fetch fails.
func (c *Cache) GetOrFetch(ctx context.Context, base string) (RateTable, error) {
	c.mu.RLock()
	entry, ok := c.entries[base]
	now := c.now()
	c.mu.RUnlock()

	if ok && now.Sub(entry.FetchedAt) < c.ttl {
		return entry, nil
	}

	rates, err := c.fetcher.FetchRates(ctx, base)
	if err != nil {
		return RateTable{}, err
	}

	fresh := RateTable{Base: base, Rates: rates, FetchedAt: c.now()}

	c.mu.Lock()
	c.entries[base] = fresh
	c.mu.Unlock()

	return fresh, nil
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]RateTable)
	c.mu.Unlock()
}
