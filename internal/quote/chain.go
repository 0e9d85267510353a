package quote

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"goldtracker/internal/model"
)

// ErrNoProviderAvailable is returned only when every provider failed
// and no fallback value of any kind exists. Callers normally never see
// it because the chain carries a configured last-resort price.
var ErrNoProviderAvailable = errors.New("no price provider available")

// Chain tries providers strictly in priority order and short-circuits
// on the first success. A provider succeeds when it returns a positive
// price within its timeout; anything else is a soft failure and the
// chain moves on. When every provider fails, the chain returns the
// last known price (or the configured fallback) marked stale, so the
// acquisition layer always hands the caller a price.
type Chain struct {
	providers []Provider
	fallback  float64

	mu        sync.Mutex
	lastKnown *model.PricePoint
}

// NewChain creates a provider chain. fallbackPrice is the hard-coded
// last resort served when no provider has ever succeeded; zero disables
// it.
func NewChain(providers []Provider, fallbackPrice float64) *Chain {
	return &Chain{providers: providers, fallback: fallbackPrice}
}

// Fetch walks the provider list and returns the first good price.
func (c *Chain) Fetch(ctx context.Context) (model.PricePoint, error) {
	for _, p := range c.providers {
		callCtx, cancel := context.WithTimeout(ctx, p.Timeout())
		price, err := p.FetchPrice(callCtx)
		cancel()
		if err != nil {
			log.Printf("[WARN] provider %s failed: %v", p.Name(), err)
			continue
		}
		if price <= 0 {
			log.Printf("[WARN] provider %s returned non-positive price %.2f", p.Name(), price)
			continue
		}
		pt := model.PricePoint{
			Price:     price,
			Timestamp: time.Now(),
			Source:    p.Name(),
		}
		c.mu.Lock()
		c.lastKnown = &pt
		c.mu.Unlock()
		return pt, nil
	}

	c.mu.Lock()
	last := c.lastKnown
	c.mu.Unlock()
	if last != nil {
		stale := *last
		stale.Stale = true
		return stale, nil
	}
	if c.fallback > 0 {
		return model.PricePoint{
			Price:     c.fallback,
			Timestamp: time.Now(),
			Source:    "fallback",
			Stale:     true,
		}, nil
	}
	return model.PricePoint{}, ErrNoProviderAvailable
}
