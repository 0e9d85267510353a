package calculator

import "errors"

// ErrDivisionByZero is returned when a percent change is requested
// against a zero base price.
var ErrDivisionByZero = errors.New("previous price is zero")

// PercentChange returns the percentage move from previous to current.
func PercentChange(current, previous float64) (float64, error) {
	if previous == 0 {
		return 0, ErrDivisionByZero
	}
	return (current - previous) / previous * 100, nil
}
