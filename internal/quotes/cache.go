package quotes

import (
	"sync"
	"time"
)

// entry stores the cached quote for a single symbol with its fetch time.
type entry struct {
	quote     Quote
	fetchedAt time.Time
}

// Cache holds normalized quotes per symbol for a TTL. Entries are only
// ever overwritten, never evicted; the working set is bounded by the
// universe of valid tickers, which is small enough in practice. Callers
// racing on a stale symbol may each fetch; last write wins, and the
// writes are idempotent normalizations of the same upstream fact.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

// NewCache builds a cache with the given TTL. now may be nil, in which
// case time.Now is used; tests inject a fake clock instead.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now, entries: make(map[string]entry)}
}

// Lookup returns the cached quote if it is still fresh.
func (c *Cache) Lookup(symbol string) (Quote, bool) {
	c.mu.RLock()
	e, ok := c.entries[symbol]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return Quote{}, false
	}
	return e.quote, true
}

// GetOrFetch returns the cached quote when fresh, otherwise runs fetch,
// stores the result (overwriting any prior entry) and returns it. Errors
// from fetch are returned without touching the stored entry.
func (c *Cache) GetOrFetch(symbol string, fetch func() (Quote, error)) (Quote, error) {
	if q, ok := c.Lookup(symbol); ok {
		return q, nil
	}
	q, err := fetch()
	if err != nil {
		return Quote{}, err
	}
	c.mu.Lock()
	c.entries[symbol] = entry{quote: q, fetchedAt: c.now()}
	c.mu.Unlock()
	return q, nil
}

// Len reports the number of stored entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
