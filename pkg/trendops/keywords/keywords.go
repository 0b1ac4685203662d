// Package keywords ranks tokens by raw corpus frequency.
package keywords

import (
	"sort"

	"github.com/cognicore/trendops/pkg/trendops/ingest"
)

// Keyword is a token with its corpus frequency.
type Keyword struct {
	Keyword   string `json:"keyword"`
	Frequency int    `json:"frequency"`
}

// Extract tokenizes every text, counts each token across the whole corpus and
// returns the topN most frequent. Ties keep first-encountered order. A topN
// of zero or less returns every token.
func Extract(tok *ingest.Tokenizer, texts []string, topN int) []Keyword {
	counts := make(map[string]int)
	var order []string
	for _, text := range texts {
		for w := range tok.Tokens(text) {
			if _, ok := counts[w]; !ok {
				order = append(order, w)
			}
			counts[w]++
		}
	}
	if len(order) == 0 {
		return []Keyword{}
	}

	out := make([]Keyword, len(order))
	for i, w := range order {
		out[i] = Keyword{Keyword: w, Frequency: counts[w]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Frequency > out[j].Frequency
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Terms returns just the keyword strings.
func Terms(kws []Keyword) []string {
	out := make([]string, len(kws))
	for i, k := range kws {
		out[i] = k.Keyword
	}
	return out
}
