package quote

import (
	"context"
	"sync"
	"time"
)

type historyEntry struct {
	closes    []float64
	fetchedAt time.Time
}

// CachedHistory memoizes daily-close fetches per requested span so that
// pollers computing day-over-day change do not hammer the upstream API.
type CachedHistory struct {
	source HistorySource
	ttl    time.Duration

	mu      sync.Mutex
	entries map[int]historyEntry

	now func() time.Time
}

// NewCachedHistory wraps a history source with a TTL memo.
func NewCachedHistory(source HistorySource, ttl time.Duration) *CachedHistory {
	return &CachedHistory{
		source:  source,
		ttl:     ttl,
		entries: make(map[int]historyEntry),
		now:     time.Now,
	}
}

// FetchDailyCloses returns cached closes for the span when fresh,
// otherwise refreshes from the underlying source. A failed refresh
// falls back to the previous data if any exists.
func (h *CachedHistory) FetchDailyCloses(ctx context.Context, days int) ([]float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if e, ok := h.entries[days]; ok && h.now().Sub(e.fetchedAt) <= h.ttl {
		return e.closes, nil
	}

	closes, err := h.source.FetchDailyCloses(ctx, days)
	if err != nil {
		if e, ok := h.entries[days]; ok {
			return e.closes, nil
		}
		return nil, err
	}
	h.entries[days] = historyEntry{closes: closes, fetchedAt: h.now()}
	return closes, nil
}
