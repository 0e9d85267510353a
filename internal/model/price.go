package model

import "time"

// PricePoint is a single observed gold price. Never mutated after creation.
type PricePoint struct {
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Stale     bool      `json:"stale"`
}

// PriceSeries holds raw closing prices for analysis, oldest first.
type PriceSeries struct {
	Symbol    string
	Closes    []float64
	FetchedAt time.Time
}
