package calculator

import (
	"errors"
	"math"
)

// RSI computes the relative strength index over the given window using
// rolling simple averages of gains and losses. The result has the same
// length as the input; entries are NaN until `window` deltas have
// accumulated. A zero average loss yields exactly 100 (maximal
// strength), never a division fault.
func RSI(prices []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(prices) < 2 {
		return out, nil
	}

	gains := make([]float64, len(prices))
	losses := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(prices); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > window {
			gainSum -= gains[i-window]
			lossSum -= losses[i-window]
		}
		if i < window {
			continue
		}
		avgGain := gainSum / float64(window)
		avgLoss := lossSum / float64(window)
		if avgLoss == 0 {
			out[i] = 100.0
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out, nil
}
