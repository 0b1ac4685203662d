package report

import (
	"strings"
	"testing"
	"time"

	"github.com/cognicore/trendops/pkg/trendops/keywords"
	"github.com/cognicore/trendops/pkg/trendops/scoring"
)

func TestComposeEmpty(t *testing.T) {
	rep := Compose(Parts{})

	if rep.Insights != NoDataInsight {
		t.Errorf("Insights = %q", rep.Insights)
	}
	if rep.TopThemes == nil || rep.TopKeywords == nil || rep.Anomalies == nil {
		t.Error("empty report should carry empty, non-nil lists")
	}
	if rep.Metrics != (Metrics{}) {
		t.Errorf("expected zero metrics, got %+v", rep.Metrics)
	}
}

func TestComposeInsights(t *testing.T) {
	ranked := []scoring.ScoredItem{
		{Item: scoring.Item{Title: "Cat video"}, EngagementScore: 100},
		{Item: scoring.Item{Title: "Dog clip"}, EngagementScore: 55},
	}
	rep := Compose(Parts{
		Ranked: ranked,
		ThemeEngagement: []scoring.ThemeEngagement{
			{Theme: "cat", Keywords: []string{"cat"}, VideoCount: 1, AvgEngagement: 100},
		},
		Anomalies:  []scoring.Anomaly{{Title: "Cat video", Type: scoring.AnomalyHigh}},
		ThemeCount: 2,
	})

	want := "Average engagement score: 77.50/100 | Highest engagement: 'Cat video' (100.00) | " +
		"Leading theme: 'cat' with 1 videos | Detected 1 engagement anomalies"
	if rep.Insights != want {
		t.Errorf("Insights =\n%q\nwant\n%q", rep.Insights, want)
	}
	if rep.Metrics.AvgEngagement != 77.5 || rep.Metrics.TotalVideos != 2 || rep.Metrics.ThemesIdentified != 2 {
		t.Errorf("unexpected metrics %+v", rep.Metrics)
	}
}

func TestComposeOmitsOptionalInsights(t *testing.T) {
	ranked := []scoring.ScoredItem{{Item: scoring.Item{Title: "solo"}, EngagementScore: 12.5}}
	rep := Compose(Parts{Ranked: ranked})

	want := "Average engagement score: 12.50/100 | Highest engagement: 'solo' (12.50)"
	if rep.Insights != want {
		t.Errorf("Insights = %q, want %q", rep.Insights, want)
	}
}

func TestComposeTruncatesKeywords(t *testing.T) {
	var kws []keywords.Keyword
	for i := 0; i < 15; i++ {
		kws = append(kws, keywords.Keyword{Keyword: strings.Repeat("k", i+3), Frequency: 15 - i})
	}
	rep := Compose(Parts{
		Ranked:   []scoring.ScoredItem{{EngagementScore: 1}},
		Keywords: kws,
	})
	if len(rep.TopKeywords) != TopKeywordLimit {
		t.Fatalf("expected %d keywords, got %d", TopKeywordLimit, len(rep.TopKeywords))
	}
}

func TestBuilderStamp(t *testing.T) {
	b := NewBuilder()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	ids := make(map[string]bool)
	for i := 0; i < 500; i++ {
		rep := b.Stamp(Empty())
		if ids[rep.ID] {
			t.Fatalf("duplicate report ID %s", rep.ID)
		}
		ids[rep.ID] = true
		if !rep.GeneratedAt.Equal(fixed) {
			t.Fatalf("GeneratedAt = %v", rep.GeneratedAt)
		}
	}
}

func TestMarkdownAndHTML(t *testing.T) {
	rep := Report{
		ID:       "01HXYZ",
		Insights: "Average engagement score: 10.00/100",
		TopThemes: []scoring.ThemeEngagement{
			{Theme: "football", Keywords: []string{"football", "goals"}, VideoCount: 3, AvgEngagement: 42},
		},
		TopKeywords: []keywords.Keyword{{Keyword: "football", Frequency: 4}},
		Anomalies:   []scoring.Anomaly{{Title: "A <b>|</b> title", Type: scoring.AnomalyLow, ZScore: 2.5}},
		Metrics:     Metrics{TotalVideos: 3, AvgEngagement: 10, ThemesIdentified: 1},
	}

	md := Markdown(rep)
	for _, want := range []string{"# Trend report", "| football | football, goals | 3 | 42.00 |", "- football (4)", `A &lt;b&gt;\|&lt;/b&gt; title`} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	html, err := HTML(rep)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, "<table>") {
		t.Errorf("expected a rendered table:\n%s", out)
	}
	if strings.Contains(out, "<b>|</b>") {
		t.Error("titles must not inject markup")
	}
}
