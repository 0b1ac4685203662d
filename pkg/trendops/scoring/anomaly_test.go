package scoring

import (
	"math"
	"testing"
)

func scores(vals ...float64) []ScoredItem {
	out := make([]ScoredItem, len(vals))
	for i, v := range vals {
		out[i] = ScoredItem{Item: Item{Title: string(rune('a' + i))}, EngagementScore: v}
	}
	return out
}

func TestDetectAnomaliesSmallPopulation(t *testing.T) {
	if got := DetectAnomalies(nil, DefaultAnomalyThreshold); len(got) != 0 {
		t.Fatalf("expected none, got %v", got)
	}
	if got := DetectAnomalies(scores(1, 100), 0); len(got) != 0 {
		t.Fatalf("fewer than 3 items must yield none, got %v", got)
	}
}

func TestDetectAnomaliesZeroVariance(t *testing.T) {
	got := DetectAnomalies(scores(42, 42, 42, 42), 0)
	if got == nil || len(got) != 0 {
		t.Fatalf("zero variance must yield an empty list, got %v", got)
	}
}

func TestDetectAnomaliesLowOutlier(t *testing.T) {
	// mean 42, std 16: the deviating item sits at exactly z = 2.
	population := scores(50, 50, 10, 50, 50)

	got := DetectAnomalies(population, 1.5)
	if len(got) != 1 {
		t.Fatalf("expected 1 anomaly, got %v", got)
	}
	a := got[0]
	if a.Title != "c" || a.Type != AnomalyLow || a.EngagementScore != 10 || a.ZScore != 2 {
		t.Fatalf("unexpected anomaly %+v", a)
	}

	if got := DetectAnomalies(population, DefaultAnomalyThreshold); len(got) != 0 {
		t.Fatalf("z equal to the threshold is not an anomaly, got %v", got)
	}
}

func TestDetectAnomaliesHighOutlier(t *testing.T) {
	vals := []float64{10, 11, 9, 10, 12, 8, 10, 95}
	got := DetectAnomalies(scores(vals...), DefaultAnomalyThreshold)

	if len(got) != 1 || got[0].Type != AnomalyHigh || got[0].EngagementScore != 95 {
		t.Fatalf("expected one high anomaly, got %+v", got)
	}
	mean, std := Stats(scores(vals...))
	want := Round2(math.Abs(95-mean) / std)
	if got[0].ZScore != want {
		t.Fatalf("ZScore = %v, want %v", got[0].ZScore, want)
	}
}

func TestStats(t *testing.T) {
	mean, std := Stats(scores(2, 4, 4, 4, 5, 5, 7, 9))
	if mean != 5 || std != 2 {
		t.Fatalf("Stats() = %v, %v, want 5, 2", mean, std)
	}
}
