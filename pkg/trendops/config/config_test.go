package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cognicore/trendops/pkg/trendops/internalerr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeFile(t, "profile.yaml", `
clusters: 3
keyword_limit: 12
anomaly_threshold: 1.5
max_iterations: 8
stoplist:
  extra: [highlights]
  keep: [music]
`)
	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Clusters != 3 || p.KeywordLimit != 12 || p.AnomalyThreshold != 1.5 || p.MaxIterations != 8 {
		t.Fatalf("unexpected profile %+v", p)
	}

	opts := p.Options()
	got := opts.Tokenizer.Tokenize("Music highlights from the stadium")
	if !reflect.DeepEqual(got, []string{"music", "stadium"}) {
		t.Fatalf("profile stoplist not applied: %v", got)
	}
}

func TestParseProfileInvalid(t *testing.T) {
	tests := []string{
		"clusters: -1",
		"keyword_limit: -4",
		"anomaly_threshold: -0.5",
		"max_iterations: -2",
		"clusters: [nope",
	}
	for _, src := range tests {
		if _, err := ParseProfile([]byte(src)); !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("ParseProfile(%q) error = %v, want ErrInvalidConfig", src, err)
		}
	}
}

func TestLoaderDefaults(t *testing.T) {
	l := Loader{}
	opts, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.Tokenizer == nil {
		t.Fatal("expected default tokenizer")
	}
	if got := opts.Tokenizer.Tokenize("official video trailer"); len(got) != 0 {
		t.Fatalf("default stoplist should drop noise terms, got %v", got)
	}
}

func TestLoaderStoplistFile(t *testing.T) {
	stopPath := writeFile(t, "stoplist.yaml", "terms:\n  - alpha\n  - beta\n")
	l := Loader{StoplistPath: stopPath}

	opts, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := opts.Tokenizer.Tokenize("alpha beta gamma the")
	if !reflect.DeepEqual(got, []string{"gamma", "the"}) {
		t.Fatalf("stoplist file should replace the defaults, got %v", got)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	l := Loader{ProfilePath: filepath.Join(t.TempDir(), "missing.yaml")}
	if _, err := l.Load(); err == nil {
		t.Fatal("expected error for missing profile")
	}
}
