package scorer

import "testing"

func approxEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < tol
}

func TestSinglePerfectPrediction(t *testing.T) {
	if !approxEqual(Single(1.0, 1.0), 0.0, 1e-10) {
		t.Errorf("Single(1,1) should be 0")
	}
	if !approxEqual(Single(0.0, 0.0), 0.0, 1e-10) {
		t.Errorf("Single(0,0) should be 0")
	}
}

func TestSingleWorstPrediction(t *testing.T) {
	if !approxEqual(Single(1.0, 0.0), 1.0, 1e-10) {
		t.Errorf("Single(1,0) should be 1")
	}
	if !approxEqual(Single(0.0, 1.0), 1.0, 1e-10) {
		t.Errorf("Single(0,1) should be 1")
	}
}

func TestSingleModeratePrediction(t *testing.T) {
	score := Single(0.7, 1.0)
	if !approxEqual(score, 0.09, 1e-10) {
		t.Errorf("Single(0.7,1.0) = %v, want 0.09", score)
	}
}

func TestAverage(t *testing.T) {
	predictions := [][2]float64{{0.9, 1.0}, {0.1, 0.0}, {0.5, 1.0}}
	avg, ok := Average(predictions)
	if !ok {
		t.Fatal("Average should succeed for non-empty input")
	}
	if !approxEqual(avg, 0.09, 1e-10) {
		t.Errorf("Average = %v, want 0.09", avg)
	}
}

func TestAverageEmpty(t *testing.T) {
	if _, ok := Average(nil); ok {
		t.Fatal("Average should report false for empty input")
	}
}

func TestAccuracyPctConversion(t *testing.T) {
	if !approxEqual(AccuracyPct(0.0), 100.0, 1e-10) {
		t.Error("AccuracyPct(0.0) should be 100")
	}
	if !approxEqual(AccuracyPct(0.25), 75.0, 1e-10) {
		t.Error("AccuracyPct(0.25) should be 75")
	}
	if !approxEqual(AccuracyPct(1.0), 0.0, 1e-10) {
		t.Error("AccuracyPct(1.0) should be 0")
	}
}
