package config

import (
	"fmt"

	"github.com/cognicore/trendops/pkg/trendops"
	"github.com/cognicore/trendops/pkg/trendops/ingest"
	"github.com/cognicore/trendops/pkg/trendops/stoplist"
)

// Loader loads configuration files and constructs engine options
type Loader struct {
	ProfilePath  string
	StoplistPath string
}

// Load reads the configured files and returns engine options. Missing paths
// fall back to the built-in defaults.
func (l *Loader) Load() (trendops.Options, error) {
	profile := &Profile{}
	if l.ProfilePath != "" {
		p, err := LoadProfile(l.ProfilePath)
		if err != nil {
			return trendops.Options{}, fmt.Errorf("load profile: %w", err)
		}
		profile = p
	}

	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return trendops.Options{}, fmt.Errorf("load stoplist: %w", err)
		}
		profile.Stoplist.Terms = append(profile.Stoplist.Terms, sl.Terms...)
	}

	return profile.Options(), nil
}

// Options converts the profile into engine options.
func (p *Profile) Options() trendops.Options {
	return trendops.Options{
		Tokenizer:        p.Stoplist.Tokenizer(),
		Clusters:         p.Clusters,
		KeywordLimit:     p.KeywordLimit,
		AnomalyThreshold: p.AnomalyThreshold,
		MaxIterations:    p.MaxIterations,
	}
}

// Tokenizer builds a tokenizer with the selected stopwords.
func (s StoplistSpec) Tokenizer() *ingest.Tokenizer {
	terms := s.Terms
	if len(terms) == 0 {
		terms = stoplist.Default()
	}
	tok := ingest.NewTokenizer(terms)
	for _, w := range s.Extra {
		tok.AddStopword(w)
	}
	for _, w := range s.Keep {
		tok.RemoveStopword(w)
	}
	return tok
}
