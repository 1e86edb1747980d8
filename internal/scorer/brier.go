// Package scorer implements the Accuracy Scorer (C4): Brier-score grading
// of resolved predictions and the accuracy aggregates derived from them.
// The pure scoring functions are transliterated from
// original_source/crates/consensus/src/brier.rs.
package scorer

import "github.com/shopspring/decimal"

// Single computes the Brier score of one prediction: (predicted-actual)^2.
// predicted is the forecast probability in [0,1]; actual is the resolved
// outcome, 0.0 or 1.0.
func Single(predicted, actual float64) float64 {
	d := predicted - actual
	return d * d
}

// Average computes the mean Brier score over a set of (predicted, actual)
// pairs, or false if predictions is empty.
func Average(predictions [][2]float64) (float64, bool) {
	if len(predictions) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, p := range predictions {
		sum += Single(p[0], p[1])
	}
	return sum / float64(len(predictions)), true
}

// AccuracyPct converts a Brier score into a 0-100 accuracy percentage:
// (1 - brier) * 100, clamped to [0, 100]. A Brier score of 0.25 (random
// guessing on a binary outcome) converts to 75% accuracy.
func AccuracyPct(brierScore float64) float64 {
	pct := (1.0 - brierScore) * 100.0
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// SingleDecimal computes Single against decimal.Decimal inputs, for
// callers working directly against database-fetched fixed-point values.
func SingleDecimal(predicted, actual decimal.Decimal) decimal.Decimal {
	predictedF, _ := predicted.Float64()
	actualF, _ := actual.Float64()
	return decimal.NewFromFloat(Single(predictedF, actualF)).Round(6)
}
