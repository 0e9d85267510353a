package quote

import (
	"context"
	"log"
	"sync"
	"time"

	"goldtracker/internal/model"
)

// PriceFetcher is the slice of the chain the cache depends on.
type PriceFetcher interface {
	Fetch(ctx context.Context) (model.PricePoint, error)
}

// Cache is a time-boxed memo in front of the provider chain. A fresh
// entry (age <= TTL) is served without touching a provider, which
// bounds the upstream call rate to one per TTL interval regardless of
// caller concurrency. An expired entry triggers a refresh; if the
// refresh fails outright, the old entry is served marked stale.
type Cache struct {
	fetcher PriceFetcher
	ttl     time.Duration

	mu        sync.Mutex
	entry     model.PricePoint
	hasEntry  bool
	fetchedAt time.Time

	now func() time.Time
}

// NewCache creates a price cache with the given freshness window.
func NewCache(fetcher PriceFetcher, ttl time.Duration) *Cache {
	return &Cache{fetcher: fetcher, ttl: ttl, now: time.Now}
}

// GetPrice returns the cached price, refreshing it first when the
// entry has expired. Readers always observe a complete entry.
func (c *Cache) GetPrice(ctx context.Context) (model.PricePoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasEntry && c.now().Sub(c.fetchedAt) <= c.ttl {
		return c.entry, nil
	}

	pt, err := c.fetcher.Fetch(ctx)
	if err != nil {
		if c.hasEntry {
			log.Printf("[WARN] price refresh failed, serving stale entry: %v", err)
			stale := c.entry
			stale.Stale = true
			c.entry = stale
			return stale, nil
		}
		return model.PricePoint{}, err
	}

	c.entry = pt
	c.hasEntry = true
	c.fetchedAt = c.now()
	return pt, nil
}
