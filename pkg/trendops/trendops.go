// Package trendops is the analytics engine facade. It turns a batch of video
// records into engagement scores, anomalies, themes and their engagement.
//
// Every call is pure: no I/O, no package state, fresh vocabulary and centroid
// state per call. Engines may be shared across goroutines.
package trendops

import (
	"github.com/cognicore/trendops/pkg/trendops/cluster"
	"github.com/cognicore/trendops/pkg/trendops/ingest"
	"github.com/cognicore/trendops/pkg/trendops/keywords"
	"github.com/cognicore/trendops/pkg/trendops/report"
	"github.com/cognicore/trendops/pkg/trendops/scoring"
	"github.com/cognicore/trendops/pkg/trendops/themes"
)

type (
	// Item is one input record.
	Item = scoring.Item
	// ScoredItem is an Item with its engagement score.
	ScoredItem = scoring.ScoredItem
	// Report is the result of Analyze.
	Report = report.Report
)

// Defaults used when Options fields are left zero.
const (
	DefaultClusters     = 5
	DefaultKeywordLimit = 15
)

// Options configures an Engine
type Options struct {
	// Tokenizer is shared read-only by every call. Nil uses
	// ingest.DefaultTokenizer().
	Tokenizer        *ingest.Tokenizer
	Clusters         int
	KeywordLimit     int
	AnomalyThreshold float64
	MaxIterations    int
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Tokenizer:        ingest.DefaultTokenizer(),
		Clusters:         DefaultClusters,
		KeywordLimit:     DefaultKeywordLimit,
		AnomalyThreshold: scoring.DefaultAnomalyThreshold,
		MaxIterations:    cluster.DefaultMaxIterations,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Tokenizer == nil {
		o.Tokenizer = d.Tokenizer
	}
	if o.Clusters <= 0 {
		o.Clusters = d.Clusters
	}
	if o.KeywordLimit <= 0 {
		o.KeywordLimit = d.KeywordLimit
	}
	if o.AnomalyThreshold <= 0 {
		o.AnomalyThreshold = d.AnomalyThreshold
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	return o
}

// Engine runs the analytics pipeline
type Engine struct {
	opts Options
}

// New creates an Engine; zero Options fields take their defaults.
func New(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

// Options returns the effective configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// Analyze runs scoring, anomaly detection, keyword extraction, theme
// clustering and theme correlation over items and assembles the report.
// The items slice is never modified.
func (e *Engine) Analyze(items []Item) Report {
	if len(items) == 0 {
		return report.Empty()
	}

	ranked := scoring.Rank(items)
	anomalies := scoring.DetectAnomalies(ranked, e.opts.AnomalyThreshold)

	texts := Texts(items)
	kws := keywords.Extract(e.opts.Tokenizer, texts, e.opts.KeywordLimit)
	ths := e.Themes(texts)

	return report.Compose(report.Parts{
		Ranked:          ranked,
		ThemeEngagement: scoring.CorrelateThemes(ranked, ths),
		Keywords:        kws,
		Anomalies:       anomalies,
		ThemeCount:      len(ths),
	})
}

// Themes clusters texts into themes with the engine's settings.
func (e *Engine) Themes(texts []string) []themes.Theme {
	return themes.Summarize(e.opts.Tokenizer, texts, themes.Options{
		Clusters:      e.opts.Clusters,
		MaxIterations: e.opts.MaxIterations,
	})
}

// Keywords ranks the corpus tokens of texts.
func (e *Engine) Keywords(texts []string, topN int) []keywords.Keyword {
	return keywords.Extract(e.opts.Tokenizer, texts, topN)
}

// Analyze runs the pipeline with DefaultOptions.
func Analyze(items []Item) Report {
	return New(Options{}).Analyze(items)
}

// Texts returns the title+description document of every item.
func Texts(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text()
	}
	return out
}
