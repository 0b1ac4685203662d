package stoplist

import "sort"

// english holds the function words that never carry a theme.
var english = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "as", "is", "was", "are", "were", "be",
	"been", "being", "have", "has", "had", "do", "does", "did", "will",
	"would", "should", "could", "may", "might", "must", "can", "this",
	"that", "these", "those", "i", "you", "he", "she", "it", "we", "they",
	"not", "all", "its", "our", "your", "their", "his", "her", "them",
	"what", "when", "who", "how", "why", "about", "into", "out", "just",
	"than", "then", "there", "here", "more", "most", "some", "any", "also",
}

// noise holds terms that appear in almost every trending title or
// description and would otherwise dominate every cluster.
var noise = []string{
	"video", "videos", "official", "music", "shorts", "new", "full",
	"episode", "trailer", "live", "channel", "subscribe", "watch",
	"http", "https", "www", "com",
}

// Default returns the built-in stopword list: English function words plus
// trending-video noise terms. The returned slice is a fresh copy.
func Default() []string {
	out := make([]string, 0, len(english)+len(noise))
	out = append(out, english...)
	out = append(out, noise...)
	return out
}

// Manager holds a mutable stopword set
type Manager struct {
	stops map[string]struct{}
}

// NewManager creates a new stoplist manager
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]struct{}, len(initialStops))
	for _, s := range initialStops {
		stops[s] = struct{}{}
	}
	return &Manager{stops: stops}
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	_, ok := m.stops[token]
	return ok
}

// Add adds a token to the stoplist
func (m *Manager) Add(token string) {
	m.stops[token] = struct{}{}
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, token)
}

// All returns all stopwords in sorted order
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// Len reports how many stopwords are held
func (m *Manager) Len() int {
	return len(m.stops)
}
