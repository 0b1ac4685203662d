// Package vectorize builds dense TF-IDF vectors over a corpus-local
// vocabulary.
package vectorize

import (
	"math"

	"github.com/cognicore/trendops/pkg/trendops/ingest"
)

// Vocabulary maps each distinct token to its column. Indices follow the order
// in which tokens are first seen across the corpus.
type Vocabulary struct {
	index map[string]int
	terms []string
}

func newVocabulary() *Vocabulary {
	return &Vocabulary{index: make(map[string]int)}
}

func (v *Vocabulary) add(term string) {
	if _, ok := v.index[term]; ok {
		return
	}
	v.index[term] = len(v.terms)
	v.terms = append(v.terms, term)
}

// Index returns the column of term.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Term returns the token at column i.
func (v *Vocabulary) Term(i int) string {
	return v.terms[i]
}

// Len is the vector dimensionality.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Matrix is the result of one Fit call. Nothing in it is shared with other
// calls.
type Matrix struct {
	Vocabulary *Vocabulary
	// Vectors holds one row per input document, each of length Vocabulary.Len().
	Vectors [][]float64
	// Tokens holds the token sequence of each document.
	Tokens [][]string
	// IDF holds the inverse document frequency of each column.
	IDF []float64
}

// Empty reports whether no document produced a single token.
func (m *Matrix) Empty() bool {
	return m.Vocabulary.Len() == 0
}

// Fit tokenizes docs and weights each one with
//
//	tf(w,d)  = count(w,d) / |tokens(d)|
//	idf(w)   = ln(N / (1 + df(w)))
//	tfidf    = tf * idf
//
// Absent terms are zero. A corpus without tokens yields an empty vocabulary
// and zero-length vectors; callers treat that as the degenerate case.
func Fit(tok *ingest.Tokenizer, docs []string) *Matrix {
	m := &Matrix{
		Vocabulary: newVocabulary(),
		Vectors:    make([][]float64, len(docs)),
		Tokens:     make([][]string, len(docs)),
	}

	df := make(map[string]int)
	for i, doc := range docs {
		tokens := tok.Tokenize(doc)
		m.Tokens[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, w := range tokens {
			m.Vocabulary.add(w)
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			df[w]++
		}
	}

	n := float64(len(docs))
	m.IDF = make([]float64, m.Vocabulary.Len())
	for i, term := range m.Vocabulary.terms {
		m.IDF[i] = math.Log(n / (1 + float64(df[term])))
	}

	for i, tokens := range m.Tokens {
		vec := make([]float64, m.Vocabulary.Len())
		if len(tokens) > 0 {
			counts := make(map[int]int, len(tokens))
			for _, w := range tokens {
				counts[m.Vocabulary.index[w]]++
			}
			total := float64(len(tokens))
			for col, c := range counts {
				vec[col] = (float64(c) / total) * m.IDF[col]
			}
		}
		m.Vectors[i] = vec
	}

	return m
}
