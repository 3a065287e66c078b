// Package papertrading implements the paper-trading recalculation and aggregation engine:
// re-basing a trading day on an alternate buy-price snapshot, summarising a day, the
// session Selection State, and the portfolio aggregate over a selection.
//
// Everything in this package is pure. Inputs are treated as immutable and never modified.
package papertrading

import "math"

// RatePrecision scales a ratio to a percentage with two decimals before rounding.
const RatePrecision = 10000

// RoundRate converts a ratio into a percentage rounded to two decimal places.
// Halves round toward positive infinity. Negative zero is normalised to zero.
//
// Example:
//
//	RoundRate(50.0 / 1000)   // 5
//	RoundRate(1.0 / 3)       // 33.33
//	RoundRate(-100.0 / 3000) // -3.33
func RoundRate(ratio float64) float64 {
	rate := math.Floor(ratio*RatePrecision+0.5) / 100
	if rate == 0 {
		return 0
	}
	return rate
}

// ProfitRate returns the percentage gain of price over reference, or 0 when the
// reference is not positive.
func ProfitRate(reference, price float64) float64 {
	if reference <= 0 {
		return 0
	}
	return RoundRate((price - reference) / reference)
}
