// Package report assembles analytics results into the structure handed to
// reporting and orchestration layers.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/trendops/pkg/trendops/keywords"
	"github.com/cognicore/trendops/pkg/trendops/scoring"
)

const (
	// TopKeywordLimit bounds Report.TopKeywords.
	TopKeywordLimit = 10
	// NoDataInsight is the insight text of an empty report.
	NoDataInsight = "No data available for analysis"

	insightSeparator = " | "
)

// Metrics summarizes the scored population.
type Metrics struct {
	AvgEngagement    float64 `json:"avgEngagement"`
	TotalVideos      int     `json:"totalVideos"`
	ThemesIdentified int     `json:"themesIdentified"`
}

// Report is the output of one analysis.
type Report struct {
	ID          string                    `json:"id,omitempty"`
	GeneratedAt time.Time                 `json:"generatedAt,omitzero"`
	TopThemes   []scoring.ThemeEngagement `json:"topThemes"`
	TopKeywords []keywords.Keyword        `json:"topKeywords"`
	Insights    string                    `json:"engagementInsights"`
	Anomalies   []scoring.Anomaly         `json:"anomalies"`
	Metrics     Metrics                   `json:"metrics"`
}

// Parts are the computed pieces Compose joins.
type Parts struct {
	Ranked          []scoring.ScoredItem
	ThemeEngagement []scoring.ThemeEngagement
	Keywords        []keywords.Keyword
	Anomalies       []scoring.Anomaly
	ThemeCount      int
}

// Empty is the neutral report for an empty input batch.
func Empty() Report {
	return Report{
		TopThemes:   []scoring.ThemeEngagement{},
		TopKeywords: []keywords.Keyword{},
		Insights:    NoDataInsight,
		Anomalies:   []scoring.Anomaly{},
	}
}

// Compose builds the report from its parts. Ranked must already be sorted by
// descending engagement.
func Compose(p Parts) Report {
	if len(p.Ranked) == 0 {
		return Empty()
	}

	avg := scoring.Mean(p.Ranked)

	kws := p.Keywords
	if len(kws) > TopKeywordLimit {
		kws = kws[:TopKeywordLimit]
	}
	if kws == nil {
		kws = []keywords.Keyword{}
	}
	themeEng := p.ThemeEngagement
	if themeEng == nil {
		themeEng = []scoring.ThemeEngagement{}
	}
	anomalies := p.Anomalies
	if anomalies == nil {
		anomalies = []scoring.Anomaly{}
	}

	return Report{
		TopThemes:   themeEng,
		TopKeywords: kws,
		Insights:    Insights(avg, p.Ranked[0], themeEng, len(anomalies)),
		Anomalies:   anomalies,
		Metrics: Metrics{
			AvgEngagement:    scoring.Round2(avg),
			TotalVideos:      len(p.Ranked),
			ThemesIdentified: p.ThemeCount,
		},
	}
}

// Insights renders the one-line summary of an analysis.
func Insights(avg float64, top scoring.ScoredItem, themeEng []scoring.ThemeEngagement, anomalyCount int) string {
	parts := []string{
		fmt.Sprintf("Average engagement score: %.2f/100", avg),
		fmt.Sprintf("Highest engagement: '%s' (%.2f)", top.Title, top.EngagementScore),
	}
	if len(themeEng) > 0 {
		lead := themeEng[0]
		parts = append(parts, fmt.Sprintf("Leading theme: '%s' with %d videos", lead.Theme, lead.VideoCount))
	}
	if anomalyCount > 0 {
		parts = append(parts, fmt.Sprintf("Detected %d engagement anomalies", anomalyCount))
	}
	return strings.Join(parts, insightSeparator)
}
