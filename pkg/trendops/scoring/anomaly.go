package scoring

import "math"

// DefaultAnomalyThreshold is the z-score above which a score is an outlier.
const DefaultAnomalyThreshold = 2.0

// MinAnomalyPopulation is the smallest population that is tested.
const MinAnomalyPopulation = 3

// AnomalyType tells which side of the mean an outlier lies on.
type AnomalyType string

const (
	AnomalyHigh AnomalyType = "high"
	AnomalyLow  AnomalyType = "low"
)

// Anomaly is one outlying engagement score.
type Anomaly struct {
	Title           string      `json:"title"`
	EngagementScore float64     `json:"engagementScore"`
	ZScore          float64     `json:"zScore"`
	Type            AnomalyType `json:"type"`
}

// Stats returns the population mean and standard deviation of the scores.
func Stats(scored []ScoredItem) (mean, std float64) {
	if len(scored) == 0 {
		return 0, 0
	}
	mean = Mean(scored)
	var sq float64
	for _, s := range scored {
		d := s.EngagementScore - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(scored)))
}

// DetectAnomalies reports every item whose absolute z-score exceeds
// threshold, in input order. Populations under MinAnomalyPopulation or with
// zero spread yield an empty list.
func DetectAnomalies(scored []ScoredItem, threshold float64) []Anomaly {
	out := []Anomaly{}
	if len(scored) < MinAnomalyPopulation {
		return out
	}
	mean, std := Stats(scored)
	if std == 0 {
		return out
	}

	for _, s := range scored {
		z := math.Abs((s.EngagementScore - mean) / std)
		if z <= threshold {
			continue
		}
		typ := AnomalyLow
		if s.EngagementScore > mean {
			typ = AnomalyHigh
		}
		out = append(out, Anomaly{
			Title:           s.Title,
			EngagementScore: s.EngagementScore,
			ZScore:          Round2(z),
			Type:            typ,
		})
	}
	return out
}
