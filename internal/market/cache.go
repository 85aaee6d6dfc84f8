package market

import (
	"container/list"
	"context"
	"sync"
	"time"

	"cardwatch/internal/log"
)

// ttlCache is a small LRU cache with per-entry expiry, keyed by currency
// code or ticker symbol. Only resolved quotes are cached; failed lookups
// stay uncached so the next dashboard render retries them.
type ttlCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	key       string
	value     float64
	expiresAt time.Time
}

func newTTLCache(maxSize int, ttl time.Duration) *ttlCache {
	return &ttlCache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *ttlCache) get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return 0, false
	}
	entry := elem.Value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.remove(elem)
		return 0, false
	}
	c.lru.MoveToFront(elem)
	return entry.value, true
}

func (c *ttlCache) set(key string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{key: key, value: value, expiresAt: time.Now().Add(c.ttl)}
	if elem, ok := c.items[key]; ok {
		elem.Value = entry
		c.lru.MoveToFront(elem)
		return
	}
	c.items[key] = c.lru.PushFront(entry)
	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

func (c *ttlCache) remove(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(c.items, entry.key)
	c.lru.Remove(elem)
}

// CachedRates memoizes a RateSource. Cached codes are served without
// touching the provider; only the misses go out in one batch.
type CachedRates struct {
	source RateSource
	cache  *ttlCache
	logger *log.Logger
}

func NewCachedRates(source RateSource, maxSize int, ttl time.Duration, logger *log.Logger) *CachedRates {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &CachedRates{
		source: source,
		cache:  newTTLCache(maxSize, ttl),
		logger: logger.WithComponent(log.ComponentMarket),
	}
}

var _ RateSource = (*CachedRates)(nil)

func (c *CachedRates) Rates(ctx context.Context, codes []string) []CurrencyRate {
	out := make([]CurrencyRate, len(codes))
	var misses []string
	missAt := make(map[string][]int)

	for i, code := range codes {
		out[i] = CurrencyRate{Currency: code}
		if v, ok := c.cache.get(code); ok {
			out[i].Rate = Float(v)
			continue
		}
		if len(missAt[code]) == 0 {
			misses = append(misses, code)
		}
		missAt[code] = append(missAt[code], i)
	}
	if len(misses) == 0 {
		c.logger.Debug("currency rates served from cache", log.FieldRows, len(codes))
		return out
	}

	for _, r := range c.source.Rates(ctx, misses) {
		if r.Rate == nil {
			continue
		}
		c.cache.set(r.Currency, *r.Rate)
		for _, i := range missAt[r.Currency] {
			out[i].Rate = Float(*r.Rate)
		}
	}
	return out
}

// CachedPrices memoizes a PriceSource the same way.
type CachedPrices struct {
	source PriceSource
	cache  *ttlCache
	logger *log.Logger
}

func NewCachedPrices(source PriceSource, maxSize int, ttl time.Duration, logger *log.Logger) *CachedPrices {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &CachedPrices{
		source: source,
		cache:  newTTLCache(maxSize, ttl),
		logger: logger.WithComponent(log.ComponentMarket),
	}
}

var _ PriceSource = (*CachedPrices)(nil)

func (c *CachedPrices) Prices(ctx context.Context, symbols []string) []StockPrice {
	out := make([]StockPrice, len(symbols))
	var misses []string
	missAt := make(map[string][]int)

	for i, symbol := range symbols {
		out[i] = StockPrice{Stock: symbol}
		if v, ok := c.cache.get(symbol); ok {
			out[i].Price = Float(v)
			continue
		}
		if len(missAt[symbol]) == 0 {
			misses = append(misses, symbol)
		}
		missAt[symbol] = append(missAt[symbol], i)
	}
	if len(misses) == 0 {
		c.logger.Debug("stock prices served from cache", log.FieldRows, len(symbols))
		return out
	}

	for _, p := range c.source.Prices(ctx, misses) {
		if p.Price == nil {
			continue
		}
		c.cache.set(p.Stock, *p.Price)
		for _, i := range missAt[p.Stock] {
			out[i].Price = Float(*p.Price)
		}
	}
	return out
}
