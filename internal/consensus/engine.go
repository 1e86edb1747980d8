// Package consensus implements the Consensus Engine (C3): an
// accuracy-weighted reconciliation of per-venue probabilities into one
// consensus probability, plus agreement, confidence, and outlier
// detection. The algorithm is transliterated from
// original_source/crates/consensus/src/engine.rs (calculate_consensus,
// calculate_weights, calculate_confidence) with no change to its constants
// or formulas — only the package's in-memory arithmetic stays float64;
// callers convert to decimal.Decimal at the persistence boundary.
package consensus

import (
	"fmt"
	"math"
)

// MinResolvedForAccuracy is the resolved-question floor a source must
// clear before its accuracy_pct is trusted for weighting.
const MinResolvedForAccuracy = 30

// OutlierThreshold is the absolute probability distance from consensus
// beyond which a source is flagged as an outlier.
const OutlierThreshold = 0.15

// SourceInput is one venue's contribution to a consensus calculation.
type SourceInput struct {
	SourceID      string
	SourceName    string
	Probability   float64
	AccuracyPct   *float64
	ResolvedCount int
	Volume        *float64
}

// SourceWeight records the weight assigned to one source in a result.
type SourceWeight struct {
	SourceID    string
	SourceName  string
	Probability float64
	Weight      float64
	AccuracyPct *float64
}

// OutlierSource records a source whose probability deviated from
// consensus by more than OutlierThreshold.
type OutlierSource struct {
	SourceID    string
	SourceName  string
	Probability float64
	Deviation   float64
}

// Result is the output of Calculate for one market at one point in time.
type Result struct {
	Probability float64
	Confidence  float64
	Agreement   float64
	SourceCount int
	Weights     []SourceWeight
	Outliers    []OutlierSource
}

// Calculate reconciles sources into a consensus Result. It returns an
// error if sources is empty; calling it with every probability non-null
// but with exactly one source short-circuits to that source's own
// probability at confidence 0.30 and agreement 1.0, per original_source.
func Calculate(sources []SourceInput) (Result, error) {
	if len(sources) == 0 {
		return Result{}, fmt.Errorf("no sources provided for consensus calculation")
	}

	if len(sources) == 1 {
		s := sources[0]
		return Result{
			Probability: s.Probability,
			Confidence:  0.3,
			Agreement:   1.0,
			SourceCount: 1,
			Weights: []SourceWeight{{
				SourceID:    s.SourceID,
				SourceName:  s.SourceName,
				Probability: s.Probability,
				Weight:      1.0,
				AccuracyPct: s.AccuracyPct,
			}},
			Outliers: nil,
		}, nil
	}

	weights := calculateWeights(sources)

	consensusProb := 0.0
	for i, s := range sources {
		consensusProb += s.Probability * weights[i]
	}

	variance := 0.0
	for i, s := range sources {
		d := s.Probability - consensusProb
		variance += weights[i] * d * d
	}
	agreement := math.Max(1.0-math.Min(math.Sqrt(variance), 1.0), 0.0)

	var outliers []OutlierSource
	for _, s := range sources {
		deviation := math.Abs(s.Probability - consensusProb)
		if deviation > OutlierThreshold {
			outliers = append(outliers, OutlierSource{
				SourceID:    s.SourceID,
				SourceName:  s.SourceName,
				Probability: s.Probability,
				Deviation:   deviation,
			})
		}
	}

	confidence := calculateConfidence(sources, agreement)

	weightDetails := make([]SourceWeight, len(sources))
	for i, s := range sources {
		weightDetails[i] = SourceWeight{
			SourceID:    s.SourceID,
			SourceName:  s.SourceName,
			Probability: s.Probability,
			Weight:      weights[i],
			AccuracyPct: s.AccuracyPct,
		}
	}

	return Result{
		Probability: clamp(consensusProb, 0.0, 1.0),
		Confidence:  confidence,
		Agreement:   agreement,
		SourceCount: len(sources),
		Weights:     weightDetails,
		Outliers:    outliers,
	}, nil
}

// calculateWeights normalizes per-source raw weights to sum to 1. Sources
// with at least MinResolvedForAccuracy resolved questions are weighted by
// their accuracy (defaulting to 50% if unknown) boosted logarithmically by
// volume of resolved history; sources below the floor get a flat 0.5 base.
func calculateWeights(sources []SourceInput) []float64 {
	raw := make([]float64, len(sources))
	sum := 0.0
	for i, s := range sources {
		if s.ResolvedCount >= MinResolvedForAccuracy {
			accuracy := 50.0
			if s.AccuracyPct != nil {
				accuracy = *s.AccuracyPct
			}
			accuracy /= 100.0
			volumeBoost := math.Max(math.Log(float64(s.ResolvedCount)), 1.0) / 5.0
			raw[i] = accuracy * (1.0 + volumeBoost)
		} else {
			raw[i] = 0.5
		}
		sum += raw[i]
	}

	if sum == 0.0 {
		equal := 1.0 / float64(len(sources))
		for i := range raw {
			raw[i] = equal
		}
		return raw
	}

	for i := range raw {
		raw[i] /= sum
	}
	return raw
}

// calculateConfidence blends source count, agreement, average accuracy,
// and total volume into a single 0-1 score.
func calculateConfidence(sources []SourceInput, agreement float64) float64 {
	countFactor := math.Min(float64(len(sources))/5.0, 1.0)

	accuracySum, accuracyN := 0.0, 0
	for _, s := range sources {
		if s.AccuracyPct != nil {
			accuracySum += *s.AccuracyPct
			accuracyN++
		}
	}
	accuracyFactor := 0.5
	if accuracyN > 0 {
		accuracyFactor = math.Min(accuracySum/float64(accuracyN)/100.0, 1.0)
	}

	totalVolume := 0.0
	for _, s := range sources {
		if s.Volume != nil {
			totalVolume += *s.Volume
		}
	}
	volumeFactor := 0.3
	if totalVolume > 0.0 {
		volumeFactor = clamp(math.Log10(totalVolume)/7.0, 0.0, 1.0)
	}

	confidence := 0.25*countFactor + 0.30*agreement + 0.25*accuracyFactor + 0.20*volumeFactor
	return clamp(confidence, 0.0, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
