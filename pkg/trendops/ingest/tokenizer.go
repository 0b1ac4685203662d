package ingest

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/trendops/pkg/trendops/stoplist"
)

// MinTokenLength is the shortest alphabetic run kept as a token.
const MinTokenLength = 3

// Tokenizer handles text tokenization and normalization
type Tokenizer struct {
	stops *stoplist.Manager
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	lowered := make([]string, 0, len(stopwords))
	for _, w := range stopwords {
		lowered = append(lowered, strings.ToLower(w))
	}
	return &Tokenizer{stops: stoplist.NewManager(lowered)}
}

// DefaultTokenizer creates a tokenizer using stoplist.Default().
func DefaultTokenizer() *Tokenizer {
	return NewTokenizer(stoplist.Default())
}

// Tokens returns a lazy sequence of lowercase ASCII-letter tokens of at
// least MinTokenLength letters with stopwords removed. A letter run that
// touches another word character (a non-ASCII letter, a digit or '_') is part
// of a larger word and is dropped whole. Ranging over the sequence again
// re-scans the text, so it can be consumed any number of times.
func (t *Tokenizer) Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := -1
		joined := false
		prevWord := false
		for i := 0; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			if r < utf8.RuneSelf && isASCIILetter(byte(r)) {
				if start < 0 {
					start, joined = i, prevWord
				}
				i += size
				continue
			}
			word := isWordRune(r)
			if start >= 0 && !joined && !word {
				if tok, ok := t.processToken(text[start:i]); ok && !yield(tok) {
					return
				}
			}
			start = -1
			prevWord = word
			i += size
		}
		if start >= 0 && !joined {
			if tok, ok := t.processToken(text[start:]); ok {
				yield(tok)
			}
		}
	}
}

// Tokenize splits text into normalized tokens, removing stopwords.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	for tok := range t.Tokens(text) {
		tokens = append(tokens, tok)
	}
	return tokens
}

// processToken applies length and stopword filtering to one letter run.
func (t *Tokenizer) processToken(run string) (string, bool) {
	if len(run) < MinTokenLength {
		return "", false
	}
	word := strings.ToLower(run)
	if t.stops.IsStop(word) {
		return "", false
	}
	return word, true
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isWordRune reports whether r continues a word: any letter or number, or '_'.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// AddStopword adds a word to the stopword list
func (t *Tokenizer) AddStopword(word string) {
	t.stops.Add(strings.ToLower(word))
}

// RemoveStopword removes a word from the stopword list
func (t *Tokenizer) RemoveStopword(word string) {
	t.stops.Remove(strings.ToLower(word))
}

// Stopwords returns the active stopword list in sorted order.
func (t *Tokenizer) Stopwords() []string {
	return t.stops.All()
}
