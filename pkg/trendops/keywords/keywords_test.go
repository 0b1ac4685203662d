package keywords

import (
	"reflect"
	"testing"

	"github.com/cognicore/trendops/pkg/trendops/ingest"
)

func TestExtractEmptyCorpus(t *testing.T) {
	tok := ingest.DefaultTokenizer()

	if got := Extract(tok, nil, 10); len(got) != 0 {
		t.Fatalf("nil corpus: expected empty, got %v", got)
	}
	if got := Extract(tok, []string{"", "the a an"}, 10); len(got) != 0 {
		t.Fatalf("tokenless corpus: expected empty, got %v", got)
	}
}

func TestExtractSingleRepeatedWord(t *testing.T) {
	tok := ingest.DefaultTokenizer()

	got := Extract(tok, []string{"goal goal", "goal"}, 10)
	want := []Keyword{{Keyword: "goal", Frequency: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractOrdering(t *testing.T) {
	tok := ingest.NewTokenizer(nil)

	texts := []string{
		"zebra apple mango",
		"apple mango",
		"kiwi apple",
	}
	got := Extract(tok, texts, 0)
	want := []Keyword{
		{"apple", 3},
		{"mango", 2},
		{"zebra", 1},
		{"kiwi", 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractTopN(t *testing.T) {
	tok := ingest.NewTokenizer(nil)

	got := Extract(tok, []string{"one two three four five"}, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 keywords, got %d", len(got))
	}
	if Terms(got)[0] != "one" || Terms(got)[1] != "two" {
		t.Fatalf("ties should keep first-seen order, got %v", Terms(got))
	}
}

func TestExtractDropsAccentedWords(t *testing.T) {
	tok := ingest.DefaultTokenizer()

	got := Extract(tok, []string{"Pokémon Legends", "Pokémon Scarlet"}, 10)
	want := []Keyword{{Keyword: "legends", Frequency: 1}, {Keyword: "scarlet", Frequency: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}
