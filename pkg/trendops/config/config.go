package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/trendops/pkg/trendops/internalerr"
)

// Profile is the analysis profile file
type Profile struct {
	Clusters         int          `yaml:"clusters"`
	KeywordLimit     int          `yaml:"keyword_limit"`
	AnomalyThreshold float64      `yaml:"anomaly_threshold"`
	MaxIterations    int          `yaml:"max_iterations"`
	Stoplist         StoplistSpec `yaml:"stoplist"`
}

// StoplistSpec selects the stopwords of a profile. Terms replaces the
// built-in list when non-empty; Extra and Keep adjust whichever list is used.
type StoplistSpec struct {
	Terms []string `yaml:"terms"`
	Extra []string `yaml:"extra"`
	Keep  []string `yaml:"keep"`
}

// Validate checks value ranges. Zero values mean "use the default".
func (p *Profile) Validate() error {
	if p.Clusters < 0 {
		return fmt.Errorf("%w: clusters must be >= 0, got %d", internalerr.ErrInvalidConfig, p.Clusters)
	}
	if p.KeywordLimit < 0 {
		return fmt.Errorf("%w: keyword_limit must be >= 0, got %d", internalerr.ErrInvalidConfig, p.KeywordLimit)
	}
	if p.AnomalyThreshold < 0 {
		return fmt.Errorf("%w: anomaly_threshold must be >= 0, got %v", internalerr.ErrInvalidConfig, p.AnomalyThreshold)
	}
	if p.MaxIterations < 0 {
		return fmt.Errorf("%w: max_iterations must be >= 0, got %d", internalerr.ErrInvalidConfig, p.MaxIterations)
	}
	return nil
}

// LoadProfile loads an analysis profile from a YAML file
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProfile(data)
}

// ParseProfile decodes and validates a YAML profile.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
