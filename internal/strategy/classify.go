package strategy

import (
	"errors"
	"fmt"
	"math"

	"goldtracker/internal/model"
)

// ErrInsufficientHistory indicates that the snapshot is missing one of
// the indicators required for classification. Callers must not guess a
// signal from partial data.
var ErrInsufficientHistory = errors.New("insufficient price history for classification")

// Classify maps an indicator snapshot to a trading signal. Rules are
// evaluated in order and the first match wins:
//
//  1. SMA10 above SMA50 with RSI < 50: Strong Buy when the spread
//     exceeds 2% and RSI < 40, otherwise Buy.
//  2. SMA10 below SMA50 with RSI > 50: Strong Sell when the spread is
//     below -2% and RSI > 60, otherwise Sell.
//  3. RSI > 70: Sell (overbought).
//  4. RSI < 30: Buy (oversold).
//  5. Neutral.
func Classify(snap *model.IndicatorSnapshot) (model.Signal, error) {
	if snap == nil || !snap.HasFullHistory() {
		return "", ErrInsufficientHistory
	}

	smaDiffPct := (snap.SMA10 - snap.SMA50) / snap.SMA50 * 100
	rsi := snap.RSI14

	switch {
	case snap.SMA10 > snap.SMA50 && rsi < 50:
		if smaDiffPct > 2 && rsi < 40 {
			return model.SignalStrongBuy, nil
		}
		return model.SignalBuy, nil
	case snap.SMA10 < snap.SMA50 && rsi > 50:
		if smaDiffPct < -2 && rsi > 60 {
			return model.SignalStrongSell, nil
		}
		return model.SignalSell, nil
	case rsi > 70:
		return model.SignalSell, nil
	case rsi < 30:
		return model.SignalBuy, nil
	default:
		return model.SignalNeutral, nil
	}
}

// Rationale renders the human-readable explanation block that
// accompanies a classified signal in analysis reports.
func Rationale(snap *model.IndicatorSnapshot, signal model.Signal) string {
	smaDiffPct := (snap.SMA10 - snap.SMA50) / snap.SMA50 * 100

	var smaStatus string
	if snap.SMA10 > snap.SMA50 {
		smaStatus = fmt.Sprintf("Bullish (10-day SMA %.2f%% above 50-day)", math.Abs(smaDiffPct))
	} else {
		smaStatus = fmt.Sprintf("Bearish (10-day SMA %.2f%% below 50-day)", math.Abs(smaDiffPct))
	}

	var rsiStatus string
	switch {
	case snap.RSI14 > 70:
		rsiStatus = fmt.Sprintf("Overbought (RSI: %.2f)", snap.RSI14)
	case snap.RSI14 < 30:
		rsiStatus = fmt.Sprintf("Oversold (RSI: %.2f)", snap.RSI14)
	default:
		rsiStatus = fmt.Sprintf("Neutral (RSI: %.2f)", snap.RSI14)
	}

	momentum := "Negative"
	if snap.SMA10 > snap.SMA50 {
		momentum = "Positive"
	}

	return fmt.Sprintf(
		"Technical Signal: %s\n- SMA Status: %s\n- RSI Status: %s\n- Momentum: %s",
		signal, smaStatus, rsiStatus, momentum)
}

// Summary renders the full technical analysis block fed to the
// narration pipeline, mirroring the facts a human analyst would read.
func Summary(symbol string, snap *model.IndicatorSnapshot, signal model.Signal) string {
	return fmt.Sprintf(
		"Gold Technical Analysis (%s)\n\nCurrent Price: $%.2f\n10-day SMA: $%.2f\n50-day SMA: $%.2f\nRSI (14-period): %.2f\n\n%s",
		symbol, snap.CurrentPrice, snap.SMA10, snap.SMA50, snap.RSI14,
		Rationale(snap, signal))
}
