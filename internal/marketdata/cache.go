// Package marketdata memoizes external price and valuation fetches.
package marketdata

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LNshuti/energy/internal/contracts"
	"github.com/LNshuti/energy/pkg/config"
	"github.com/LNshuti/energy/pkg/logger"
	"github.com/LNshuti/energy/pkg/metrics"
)

// Key identifies one fetch window
type Key struct {
	Ticker string
	Start  string
	End    string
}

// NewKey builds a key at calendar-day resolution
func NewKey(ticker string, start, end time.Time) Key {
	return Key{
		Ticker: ticker,
		Start:  start.Format(config.DateLayout),
		End:    end.Format(config.DateLayout),
	}
}

// String implements fmt.Stringer
func (k Key) String() string {
	return fmt.Sprintf("%s[%s..%s]", k.Ticker, k.Start, k.End)
}

// Resolution is the outcome of a lookup: a series with its valuation, or absence
type Resolution struct {
	Series    *contracts.PriceSeries
	MarketCap contracts.MarketCap
}

// Available reports whether price data is present
func (r Resolution) Available() bool {
	return r.Series.Len() > 0
}

var absent = Resolution{MarketCap: contracts.UnknownMarketCap}

// Config bounds the cache
type Config struct {
	TTL        time.Duration
	MaxEntries int
}

// Option customizes a Cache
type Option func(*Cache)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithMetrics records hits, misses and fetch latency
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

type entry struct {
	key       Key
	value     Resolution
	expiresAt time.Time
}

// Cache is a TTL + LRU memo in front of the data source
// ⭐ SSOT: one map and one recency list hold both expiry and eviction order
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*list.Element
	order   *list.List // front = most recently used

	ttl      time.Duration
	capacity int

	prices contracts.PriceSource
	meta   contracts.MetadataSource

	logger  *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	hits      int64
	misses    int64
	evictions int64
}

// NewCache creates a cache over the given sources; meta may be nil
func NewCache(prices contracts.PriceSource, meta contracts.MetadataSource, cfg Config, log *logger.Logger, opts ...Option) *Cache {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 1
	}

	c := &Cache{
		entries:  make(map[Key]*list.Element),
		order:    list.New(),
		ttl:      cfg.TTL,
		capacity: cfg.MaxEntries,
		prices:   prices,
		meta:     meta,
		logger:   log.WithField("module", "marketdata"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the cached value for the window or fetches it.
// Fetch failures are absorbed and cached as absence; the caller only
// ever sees present or absent data.
func (c *Cache) Resolve(ctx context.Context, ticker string, start, end time.Time) Resolution {
	key := NewKey(ticker, start, end)

	if res, ok := c.lookup(key); ok {
		return res
	}

	// Fetch without holding the lock; duplicate cold fetches are tolerated
	res := c.fetch(ctx, key, start, end)

	// A cancelled request must not pin absence for the whole TTL
	if ctx.Err() != nil {
		return res
	}

	c.store(key, res)
	return res
}

func (c *Cache) lookup(key Key) (Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		if c.now().Before(e.expiresAt) {
			c.order.MoveToFront(el)
			c.hits++
			c.metrics.CacheHit()
			return e.value, true
		}
		c.removeElement(el)
	}

	c.misses++
	c.metrics.CacheMiss()
	return Resolution{}, false
}

func (c *Cache) store(key Key, res Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.value = res
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, value: res, expiresAt: expiresAt})

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.removeElement(oldest)
		c.evictions++
		c.metrics.CacheEvicted()
		c.logger.WithField("key", oldest.Value.(*entry).key.String()).Debug("Evicted least recently used entry")
	}

	c.metrics.CacheSize(c.order.Len())
}

func (c *Cache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.entries, el.Value.(*entry).key)
}

func (c *Cache) fetch(ctx context.Context, key Key, start, end time.Time) (res Resolution) {
	startedAt := time.Now()
	log := c.logger.WithField("ticker", key.Ticker)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", fmt.Sprint(r)).Error("Data source panicked")
			res = absent
		}
		c.metrics.ObserveFetch(time.Since(startedAt), res.Available())
	}()

	series, err := c.prices.FetchPrices(ctx, key.Ticker, start, end)
	if err != nil {
		log.WithError(err).Warn("No price data")
		return absent
	}
	if series.Len() == 0 {
		log.Warn("No price data")
		return absent
	}

	res = Resolution{Series: series, MarketCap: contracts.UnknownMarketCap}
	if c.meta == nil {
		return res
	}

	mc, err := c.meta.FetchMarketCap(ctx, key.Ticker)
	if err != nil {
		log.WithError(err).Warn("Market cap unavailable")
		return res
	}
	res.MarketCap = mc

	log.WithFields(map[string]interface{}{
		"observations": series.Len(),
		"market_cap":   mc.String(),
	}).Debug("Fetched market data")

	return res
}

// CleanExpired drops entries past their retention window
func (c *Cache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0

	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*entry).expiresAt) {
			c.removeElement(el)
			count++
		}
		el = prev
	}

	if count > 0 {
		c.logger.WithField("count", count).Info("Cleaned expired market data")
		c.metrics.CacheSize(c.order.Len())
	}

	return count
}

// Clear empties the cache; counters are kept
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*list.Element)
	c.order.Init()
	c.metrics.CacheSize(0)
	c.logger.Info("Cleared market data cache")
}

// Len returns the number of entries, expired or not
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// Stats returns cache statistics
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Entries:   c.order.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}

	now := c.now()
	for el := c.order.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry)
		if !now.Before(e.expiresAt) {
			stats.Expired++
		}
		if !e.value.Available() {
			stats.Absent++
		}
	}

	return stats
}

// Stats represents cache statistics
type Stats struct {
	Entries   int   `json:"entries"`
	Capacity  int   `json:"capacity"`
	Expired   int   `json:"expired"`
	Absent    int   `json:"absent"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}
