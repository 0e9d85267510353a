package model

import "math"

// IndicatorSnapshot holds the technical indicators derived from a
// closing-price series. Fields without enough history are NaN.
type IndicatorSnapshot struct {
	CurrentPrice float64
	SMA10        float64
	SMA50        float64
	RSI14        float64
	ChangePct    float64
}

// HasFullHistory reports whether every field required for
// classification has accumulated enough observations.
func (s *IndicatorSnapshot) HasFullHistory() bool {
	return !math.IsNaN(s.SMA10) && !math.IsNaN(s.SMA50) && !math.IsNaN(s.RSI14)
}
