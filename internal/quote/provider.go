package quote

import (
	"context"
	"time"
)

// Provider fetches one spot price from a single upstream source.
// Implementations must honor ctx cancellation; any internal fault is
// reported as an error and absorbed by the chain.
type Provider interface {
	FetchPrice(ctx context.Context) (float64, error)
	Name() string
	Timeout() time.Duration
}

// HistorySource provides daily closing prices, oldest first, for
// indicator computation.
type HistorySource interface {
	FetchDailyCloses(ctx context.Context, days int) ([]float64, error)
}
