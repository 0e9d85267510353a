package model

// Signal is the discrete trading signal derived from an IndicatorSnapshot.
type Signal string

const (
	SignalStrongBuy  Signal = "Strong Buy"
	SignalBuy        Signal = "Buy"
	SignalNeutral    Signal = "Neutral"
	SignalSell       Signal = "Sell"
	SignalStrongSell Signal = "Strong Sell"
)
