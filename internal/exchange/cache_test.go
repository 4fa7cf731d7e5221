package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeFetcher struct {
	calls int
	rates map[string]float64
	err   error
}

func (f *fakeFetcher) FetchRates(ctx context.Context, base string) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Base: base, Cause: err}
	}
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rates, nil
}

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func TestCache_SecondCallWithinWindowDoesNotFetch(t *testing.T) {
	fetcher := &fakeFetcher{rates: map[string]float64{"USD": 1.08, "RSD": 117.2}}
	clock := &fakeClock{current: time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(fetcher, DefaultTTL).WithClock(clock.Now)

	first, err := cache.GetOrFetch(context.Background(), "EUR")
	assert.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)

	clock.Advance(4 * time.Minute)

	second, err := cache.GetOrFetch(context.Background(), "EUR")
	assert.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls, "entry younger than the TTL must be served without a network call")
	assert.Equal(t, first.FetchedAt, second.FetchedAt)
}

func TestCache_ExpiredEntryIsRefetchedAndOverwritten(t *testing.T) {
	fetcher := &fakeFetcher{rates: map[string]float64{"USD": 1.08}}
	clock := &fakeClock{current: time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(fetcher, DefaultTTL).WithClock(clock.Now)

	_, err := cache.GetOrFetch(context.Background(), "EUR")
	assert.NoError(t, err)

	clock.Advance(5*time.Minute + time.Second)
	fetcher.rates = map[string]float64{"USD": 1.11}

	refreshed, err := cache.GetOrFetch(context.Background(), "EUR")
	assert.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
	assert.Equal(t, 1.11, refreshed.Rates["USD"], "expired entry must be overwritten by the fresh fetch")
	assert.Equal(t, clock.Now(), refreshed.FetchedAt)
}

func TestCache_SeparateBaseCurrenciesAreCachedIndependently(t *testing.T) {
	fetcher := &fakeFetcher{rates: map[string]float64{"EUR": 0.92}}
	clock := &fakeClock{current: time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(fetcher, DefaultTTL).WithClock(clock.Now)

	_, err := cache.GetOrFetch(context.Background(), "EUR")
	assert.NoError(t, err)
	_, err = cache.GetOrFetch(context.Background(), "USD")
	assert.NoError(t, err)

	assert.Equal(t, 2, fetcher.calls)
}

func TestCache_FetchErrorIsNotMaskedByExpiredEntry(t *testing.T) {
	fetcher := &fakeFetcher{rates: map[string]float64{"USD": 1.08}}
	clock := &fakeClock{current: time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(fetcher, DefaultTTL).WithClock(clock.Now)

	_, err := cache.GetOrFetch(context.Background(), "EUR")
	assert.NoError(t, err)

	clock.Advance(6 * time.Minute)
	fetcher.err = &FetchError{Base: "EUR", Cause: ErrMissingRates}

	_, err = cache.GetOrFetch(context.Background(), "EUR")
	assert.Error(t, err, "stale entries must not be served past expiry, even on failure")
	assert.True(t, errors.Is(err, ErrMissingRates))
}

func TestCache_CancelledContextAbortsFetch(t *testing.T) {
	fetcher := &fakeFetcher{rates: map[string]float64{"USD": 1.08}}
	cache := NewCache(fetcher, DefaultTTL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cache.GetOrFetch(ctx, "EUR")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, fetcher.calls)
}

func TestCache_ClearForcesRefetch(t *testing.T) {
	fetcher := &fakeFetcher{rates: map[string]float64{"USD": 1.08}}
	clock := &fakeClock{current: time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(fetcher, DefaultTTL).WithClock(clock.Now)

	_, err := cache.GetOrFetch(context.Background(), "EUR")
	assert.NoError(t, err)

	cache.Clear()

	_, err = cache.GetOrFetch(context.Background(), "EUR")
	assert.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}
