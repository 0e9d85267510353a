package calculator

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRollingMean_ShortSeries(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9} // 9 < window
	out, err := RollingMean(prices, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(prices) {
		t.Fatalf("expected %d entries, got %d", len(prices), len(out))
	}
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Errorf("index %d: expected NaN, got %v", i, v)
		}
	}
}

func TestRollingMean_FullWindow(t *testing.T) {
	prices := make([]float64, 15)
	for i := range prices {
		prices[i] = float64(i + 1) // 1..15
	}
	out, err := RollingMean(prices, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 9; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("index %d: expected NaN before full window, got %v", i, out[i])
		}
	}
	// Entry 9 = mean(1..10) = 5.5; entry 14 = mean(6..15) = 10.5
	if !almostEqual(out[9], 5.5) {
		t.Errorf("expected 5.5 at index 9, got %v", out[9])
	}
	if !almostEqual(out[14], 10.5) {
		t.Errorf("expected 10.5 at index 14, got %v", out[14])
	}
}

func TestRollingMean_InvalidWindow(t *testing.T) {
	if _, err := RollingMean([]float64{1, 2, 3}, 0); err == nil {
		t.Error("expected error for zero window")
	}
}

func TestRSI_MonotonicRise(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	out, err := RSI(prices, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := out[len(out)-1]
	if last != 100.0 {
		t.Errorf("expected RSI 100 for monotonically rising series, got %v", last)
	}
	if math.IsInf(last, 0) || math.IsNaN(last) {
		t.Errorf("zero-loss edge case produced %v", last)
	}
}

func TestRSI_InsufficientDeltas(t *testing.T) {
	prices := []float64{100, 101, 102} // only 2 deltas
	out, err := RSI(prices, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Errorf("index %d: expected NaN with too few deltas, got %v", i, v)
		}
	}
}

func TestRSI_Balanced(t *testing.T) {
	// Alternating equal gains and losses: avg gain == avg loss -> RSI 50.
	prices := make([]float64, 30)
	prices[0] = 100
	for i := 1; i < len(prices); i++ {
		if i%2 == 1 {
			prices[i] = prices[i-1] + 1
		} else {
			prices[i] = prices[i-1] - 1
		}
	}
	out, err := RSI(prices, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := out[len(out)-1]
	if !almostEqual(last, 50.0) {
		t.Errorf("expected RSI 50 for balanced series, got %v", last)
	}
}

func TestPercentChange(t *testing.T) {
	pct, err := PercentChange(110, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(pct, 10.0) {
		t.Errorf("expected 10%%, got %v", pct)
	}

	if _, err := PercentChange(110, 0); err != ErrDivisionByZero {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestSnapshot_PartialHistory(t *testing.T) {
	// 10 rising closes then 10 falling: enough for SMA10 and RSI, not SMA50.
	closes := make([]float64, 0, 20)
	for i := 0; i < 10; i++ {
		closes = append(closes, 100+float64(i))
	}
	for i := 0; i < 10; i++ {
		closes = append(closes, 108-float64(i))
	}
	snap, err := Snapshot(closes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsNaN(snap.SMA10) {
		t.Error("expected SMA10 with 20 observations")
	}
	if !math.IsNaN(snap.SMA50) {
		t.Errorf("expected NaN SMA50 with only 20 observations, got %v", snap.SMA50)
	}
	if math.IsNaN(snap.RSI14) {
		t.Error("expected RSI14 with 19 deltas")
	}
	if snap.HasFullHistory() {
		t.Error("snapshot should not report full history without SMA50")
	}
	if snap.CurrentPrice != 99 {
		t.Errorf("expected current price 99, got %v", snap.CurrentPrice)
	}
}

func TestSnapshot_Empty(t *testing.T) {
	if _, err := Snapshot(nil); err == nil {
		t.Error("expected error for empty series")
	}
}
