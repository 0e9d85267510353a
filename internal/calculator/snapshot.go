package calculator

import (
	"errors"
	"math"

	"goldtracker/internal/model"
)

// Snapshot derives all indicators from an ordered closing-price series
// (oldest first). Indicators without enough history come back as NaN;
// only an empty series is an error.
func Snapshot(closes []float64) (*model.IndicatorSnapshot, error) {
	if len(closes) == 0 {
		return nil, errors.New("empty price series")
	}

	sma10, err := RollingMean(closes, 10)
	if err != nil {
		return nil, err
	}
	sma50, err := RollingMean(closes, 50)
	if err != nil {
		return nil, err
	}
	rsi14, err := RSI(closes, 14)
	if err != nil {
		return nil, err
	}

	snap := &model.IndicatorSnapshot{
		CurrentPrice: closes[len(closes)-1],
		SMA10:        LastValid(sma10),
		SMA50:        LastValid(sma50),
		RSI14:        LastValid(rsi14),
		ChangePct:    math.NaN(),
	}
	if len(closes) >= 2 {
		if pct, err := PercentChange(closes[len(closes)-1], closes[len(closes)-2]); err == nil {
			snap.ChangePct = pct
		}
	}
	return snap, nil
}
