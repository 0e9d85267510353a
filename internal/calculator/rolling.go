package calculator

import (
	"errors"
	"math"
)

// RollingMean computes the trailing simple moving average of prices over
// the given window. The result has the same length as the input; entries
// before a full window has accumulated are NaN.
func RollingMean(prices []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	out := make([]float64, len(prices))
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= window {
			sum -= prices[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// LastValid returns the last non-NaN entry of a series, or NaN if the
// series is empty or ends in NaN.
func LastValid(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}
