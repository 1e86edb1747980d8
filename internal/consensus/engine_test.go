package consensus

import "testing"

func f(v float64) *float64 { return &v }

func testSources() []SourceInput {
	return []SourceInput{
		{SourceID: "polymarket", SourceName: "Polymarket", Probability: 0.67, AccuracyPct: f(89.2), ResolvedCount: 134, Volume: f(5_000_000.0)},
		{SourceID: "kalshi", SourceName: "Kalshi", Probability: 0.61, AccuracyPct: f(81.3), ResolvedCount: 67, Volume: f(2_000_000.0)},
		{SourceID: "metaculus", SourceName: "Metaculus", Probability: 0.72, AccuracyPct: f(84.7), ResolvedCount: 89, Volume: nil},
	}
}

func TestCalculateConsensus(t *testing.T) {
	result, err := Calculate(testSources())
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	if result.Probability <= 0.60 || result.Probability >= 0.75 {
		t.Errorf("Probability = %v, want in (0.60, 0.75)", result.Probability)
	}
	if result.Confidence <= 0.0 || result.Confidence > 1.0 {
		t.Errorf("Confidence = %v, want in (0, 1]", result.Confidence)
	}
	if result.SourceCount != 3 {
		t.Errorf("SourceCount = %d, want 3", result.SourceCount)
	}
	if result.Agreement <= 0.5 {
		t.Errorf("Agreement = %v, want > 0.5 for sources this close", result.Agreement)
	}
}

func TestCalculateSingleSource(t *testing.T) {
	sources := []SourceInput{
		{SourceID: "poly", SourceName: "Polymarket", Probability: 0.65, AccuracyPct: f(85.0), ResolvedCount: 100, Volume: f(1_000_000.0)},
	}
	result, err := Calculate(sources)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	if diff := result.Probability - 0.65; diff > 1e-10 || diff < -1e-10 {
		t.Errorf("Probability = %v, want 0.65", result.Probability)
	}
	if result.Confidence != 0.3 {
		t.Errorf("Confidence = %v, want 0.3 for single source", result.Confidence)
	}
	if result.Agreement != 1.0 {
		t.Errorf("Agreement = %v, want 1.0 for single source", result.Agreement)
	}
}

func TestCalculateDetectsOutlier(t *testing.T) {
	sources := []SourceInput{
		{SourceID: "a", SourceName: "A", Probability: 0.70, AccuracyPct: f(90.0), ResolvedCount: 100, Volume: f(5_000_000.0)},
		{SourceID: "b", SourceName: "B", Probability: 0.68, AccuracyPct: f(85.0), ResolvedCount: 80, Volume: f(3_000_000.0)},
		{SourceID: "c", SourceName: "C", Probability: 0.45, AccuracyPct: f(64.0), ResolvedCount: 48, Volume: f(500_000.0)},
	}
	result, err := Calculate(sources)
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	if len(result.Outliers) == 0 {
		t.Fatal("expected source C to be flagged as an outlier")
	}
}

func TestCalculateWeightsNormalize(t *testing.T) {
	weights := calculateWeights(testSources())
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if diff := sum - 1.0; diff > 1e-10 || diff < -1e-10 {
		t.Errorf("weights sum to %v, want 1.0", sum)
	}
}

func TestCalculateEmptySources(t *testing.T) {
	if _, err := Calculate(nil); err == nil {
		t.Fatal("expected error for empty sources")
	}
}

func TestCalculateBelowAccuracyFloorUsesFlatWeight(t *testing.T) {
	sources := []SourceInput{
		{SourceID: "new-a", SourceName: "New A", Probability: 0.6, ResolvedCount: 5},
		{SourceID: "new-b", SourceName: "New B", Probability: 0.4, ResolvedCount: 5},
	}
	weights := calculateWeights(sources)
	if diff := weights[0] - weights[1]; diff > 1e-10 || diff < -1e-10 {
		t.Errorf("expected equal weights for two sub-floor sources, got %v and %v", weights[0], weights[1])
	}
}
