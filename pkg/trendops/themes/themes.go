// Package themes turns clustered documents into labelled themes.
package themes

import (
	"github.com/cognicore/trendops/pkg/trendops/cluster"
	"github.com/cognicore/trendops/pkg/trendops/ingest"
	"github.com/cognicore/trendops/pkg/trendops/keywords"
	"github.com/cognicore/trendops/pkg/trendops/vectorize"
)

const (
	// MaxKeywords is the number of keywords kept per theme.
	MaxKeywords = 5
	// FallbackTerm labels a theme that produced no tokens.
	FallbackTerm = "general"
)

// Theme is the human-readable summary of one cluster.
type Theme struct {
	ID                 int      `json:"themeId"`
	Keywords           []string `json:"keywords"`
	VideoCount         int      `json:"videoCount"`
	RepresentativeTerm string   `json:"representativeTerm"`
}

// Options tunes Summarize.
type Options struct {
	Clusters      int
	MaxIterations int
}

// Summarize clusters texts into at most opts.Clusters themes, largest first.
//
// Keywords come from the raw token frequencies of each cluster's members,
// not from TF-IDF weights. When no text yields a token the result is a single
// "general" theme spanning every document.
func Summarize(tok *ingest.Tokenizer, texts []string, opts Options) []Theme {
	if len(texts) == 0 {
		return nil
	}

	m := vectorize.Fit(tok, texts)
	if m.Empty() {
		return []Theme{{
			ID:                 0,
			Keywords:           []string{},
			VideoCount:         len(texts),
			RepresentativeTerm: FallbackTerm,
		}}
	}

	res := cluster.KMeans(m.Vectors, opts.Clusters, cluster.Options{MaxIterations: opts.MaxIterations})

	out := make([]Theme, 0, len(res.Clusters))
	for _, c := range res.Clusters {
		members := make([]string, len(c.Members))
		for i, idx := range c.Members {
			members[i] = texts[idx]
		}
		terms := keywords.Terms(keywords.Extract(tok, members, MaxKeywords))
		rep := FallbackTerm
		if len(terms) > 0 {
			rep = terms[0]
		}
		out = append(out, Theme{
			ID:                 c.ID,
			Keywords:           terms,
			VideoCount:         c.Size(),
			RepresentativeTerm: rep,
		})
	}
	return out
}
