package marketdata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LNshuti/energy/internal/contracts"
	"github.com/LNshuti/energy/pkg/logger"
	"github.com/LNshuti/energy/pkg/metrics"
)

type fakePrices struct {
	calls   atomic.Int64
	missing map[string]bool
	failing map[string]error
	panics  bool
}

func (f *fakePrices) FetchPrices(_ context.Context, ticker string, start, _ time.Time) (*contracts.PriceSeries, error) {
	f.calls.Add(1)
	if f.panics {
		panic("boom")
	}
	if err, ok := f.failing[ticker]; ok {
		return nil, err
	}
	if f.missing[ticker] {
		return nil, contracts.ErrEmptySeries
	}
	return contracts.NewPriceSeries(ticker, []contracts.Observation{
		{Date: start, Close: 10},
		{Date: start.AddDate(0, 0, 1), Close: 11},
	})
}

type fakeMeta struct {
	calls atomic.Int64
	err   error
}

func (f *fakeMeta) FetchMarketCap(_ context.Context, _ string) (contracts.MarketCap, error) {
	f.calls.Add(1)
	if f.err != nil {
		return contracts.UnknownMarketCap, f.err
	}
	return contracts.MarketCapFromRaw(150_000_000_000), nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var (
	start = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
)

func newTestCache(prices *fakePrices, meta *fakeMeta, maxEntries int) (*Cache, *clock) {
	clk := &clock{now: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)}
	c := NewCache(prices, meta, Config{TTL: 24 * time.Hour, MaxEntries: maxEntries}, logger.Nop(), WithClock(clk.Now))
	return c, clk
}

func TestCache_Idempotent(t *testing.T) {
	prices, meta := &fakePrices{}, &fakeMeta{}
	c, _ := newTestCache(prices, meta, 100)

	first := c.Resolve(context.Background(), "XOM", start, end)
	second := c.Resolve(context.Background(), "XOM", start, end)

	require.True(t, first.Available())
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), prices.calls.Load())
	assert.Equal(t, int64(1), meta.calls.Load())

	b, ok := first.MarketCap.Billions()
	require.True(t, ok)
	assert.Equal(t, "150", b.String())

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCache_ExpiryRefetchesOnce(t *testing.T) {
	prices := &fakePrices{}
	c, clk := newTestCache(prices, &fakeMeta{}, 100)

	c.Resolve(context.Background(), "XOM", start, end)
	clk.Advance(23 * time.Hour)
	c.Resolve(context.Background(), "XOM", start, end)
	assert.Equal(t, int64(1), prices.calls.Load(), "still live")

	clk.Advance(time.Hour)
	c.Resolve(context.Background(), "XOM", start, end)
	c.Resolve(context.Background(), "XOM", start, end)
	assert.Equal(t, int64(2), prices.calls.Load(), "exactly one fresh call after expiry")
}

func TestCache_DistinctKeys(t *testing.T) {
	prices := &fakePrices{}
	c, _ := newTestCache(prices, &fakeMeta{}, 100)

	c.Resolve(context.Background(), "XOM", start, end)
	c.Resolve(context.Background(), "XOM", start, end.AddDate(0, 0, 1))
	c.Resolve(context.Background(), "CVX", start, end)

	assert.Equal(t, int64(3), prices.calls.Load())
	assert.Equal(t, 3, c.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	prices := &fakePrices{}
	c, _ := newTestCache(prices, &fakeMeta{}, 2)
	ctx := context.Background()

	c.Resolve(ctx, "A", start, end)
	c.Resolve(ctx, "B", start, end)
	c.Resolve(ctx, "A", start, end) // A is now most recent
	c.Resolve(ctx, "C", start, end) // evicts B

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(3), prices.calls.Load())

	c.Resolve(ctx, "A", start, end)
	assert.Equal(t, int64(3), prices.calls.Load(), "A survived")

	c.Resolve(ctx, "B", start, end)
	assert.Equal(t, int64(4), prices.calls.Load(), "B was evicted")
	assert.Equal(t, int64(2), c.Stats().Evictions)
}

func TestCache_AbsenceIsCached(t *testing.T) {
	prices := &fakePrices{missing: map[string]bool{"LOVES": true}}
	meta := &fakeMeta{}
	c, _ := newTestCache(prices, meta, 100)

	res := c.Resolve(context.Background(), "LOVES", start, end)
	assert.False(t, res.Available())
	assert.False(t, res.MarketCap.Known())

	c.Resolve(context.Background(), "LOVES", start, end)
	assert.Equal(t, int64(1), prices.calls.Load())
	assert.Equal(t, int64(0), meta.calls.Load(), "no metadata lookup without prices")
	assert.Equal(t, 1, c.Stats().Absent)
}

func TestCache_ErrorsBecomeAbsence(t *testing.T) {
	prices := &fakePrices{failing: map[string]error{"XOM": errors.New("connection reset")}}
	c, _ := newTestCache(prices, &fakeMeta{}, 100)

	res := c.Resolve(context.Background(), "XOM", start, end)
	assert.False(t, res.Available())
	assert.False(t, res.MarketCap.Known())
}

func TestCache_PanicBecomesAbsence(t *testing.T) {
	c, _ := newTestCache(&fakePrices{panics: true}, &fakeMeta{}, 100)

	var res Resolution
	require.NotPanics(t, func() {
		res = c.Resolve(context.Background(), "XOM", start, end)
	})
	assert.False(t, res.Available())
}

func TestCache_MetadataFailureKeepsSeries(t *testing.T) {
	c, _ := newTestCache(&fakePrices{}, &fakeMeta{err: errors.New("quote unavailable")}, 100)

	res := c.Resolve(context.Background(), "XOM", start, end)
	assert.True(t, res.Available())
	assert.False(t, res.MarketCap.Known())
}

func TestCache_NilMetadataSource(t *testing.T) {
	c := NewCache(&fakePrices{}, nil, Config{TTL: time.Hour, MaxEntries: 10}, logger.Nop())

	res := c.Resolve(context.Background(), "XOM", start, end)
	assert.True(t, res.Available())
	assert.False(t, res.MarketCap.Known())
}

func TestCache_CancelledRequestNotStored(t *testing.T) {
	prices := &fakePrices{}
	c, _ := newTestCache(prices, &fakeMeta{}, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c.Resolve(ctx, "XOM", start, end)
	assert.Equal(t, 0, c.Len())
}

func TestCache_CleanExpired(t *testing.T) {
	c, clk := newTestCache(&fakePrices{}, &fakeMeta{}, 100)
	ctx := context.Background()

	c.Resolve(ctx, "A", start, end)
	clk.Advance(12 * time.Hour)
	c.Resolve(ctx, "B", start, end)
	clk.Advance(12 * time.Hour)

	assert.Equal(t, 1, c.Stats().Expired)
	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.CleanExpired())
}

func TestCache_Clear(t *testing.T) {
	prices := &fakePrices{}
	c, _ := newTestCache(prices, &fakeMeta{}, 100)

	c.Resolve(context.Background(), "A", start, end)
	c.Clear()
	assert.Equal(t, 0, c.Len())

	c.Resolve(context.Background(), "A", start, end)
	assert.Equal(t, int64(2), prices.calls.Load())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	prices := &fakePrices{}
	c, _ := newTestCache(prices, &fakeMeta{}, 5)
	tickers := []string{"A", "B", "C", "D", "E", "F", "G"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := c.Resolve(context.Background(), tickers[i%len(tickers)], start, end)
			assert.True(t, res.Available())
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 5)
	stats := c.Stats()
	assert.Equal(t, int64(50), stats.Hits+stats.Misses)
}

func TestCache_RecordsMetrics(t *testing.T) {
	m := metrics.New()
	c := NewCache(&fakePrices{}, &fakeMeta{}, Config{TTL: time.Hour, MaxEntries: 10}, logger.Nop(), WithMetrics(m))

	c.Resolve(context.Background(), "A", start, end)
	c.Resolve(context.Background(), "A", start, end)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheEntries))
}
