// Package settings loads process configuration from the environment.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/cognicore/trendops/pkg/trendops/internalerr"
	"github.com/cognicore/trendops/pkg/trendops/maintenance"
)

// Config holds the process settings.
type Config struct {
	YouTubeAPIKey  string        `env:"YOUTUBE_API_KEY"`
	YouTubeBaseURL string        `env:"YOUTUBE_API_BASE_URL" envDefault:"https://www.googleapis.com/youtube/v3"`
	YouTubeRPS     float64       `env:"YOUTUBE_RPS" envDefault:"2"`
	YouTubeTimeout time.Duration `env:"YOUTUBE_TIMEOUT" envDefault:"10s"`

	LLMAPIKey  string `env:"LLM_API_KEY"`
	LLMBaseURL string `env:"LLM_BASE_URL"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8000"`
	DBPath      string `env:"DB_PATH" envDefault:"trendops.db"`
	ProfilePath string `env:"PROFILE_PATH"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`

	// ReportRetention is an ISO-8601 duration; "0" keeps reports forever.
	ReportRetention string `env:"REPORT_RETENTION" envDefault:"P30D"`

	MaxRequestsPerSession int `env:"MAX_REQUESTS_PER_SESSION" envDefault:"100"`
	MaxResultsPerRequest  int `env:"MAX_RESULTS_PER_REQUEST" envDefault:"50"`
	DefaultMaxResults     int `env:"DEFAULT_MAX_RESULTS" envDefault:"25"`
}

// Load reads an optional .env file and then the environment. Files listed
// in envFiles that do not exist are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks limits that must hold for the server to start.
func (c *Config) Validate() error {
	if c.MaxResultsPerRequest < 1 {
		return fmt.Errorf("%w: MAX_RESULTS_PER_REQUEST must be >= 1", internalerr.ErrInvalidConfig)
	}
	if c.DefaultMaxResults < 1 || c.DefaultMaxResults > c.MaxResultsPerRequest {
		return fmt.Errorf("%w: DEFAULT_MAX_RESULTS must be within 1..%d", internalerr.ErrInvalidConfig, c.MaxResultsPerRequest)
	}
	if c.MaxRequestsPerSession < 1 {
		return fmt.Errorf("%w: MAX_REQUESTS_PER_SESSION must be >= 1", internalerr.ErrInvalidConfig)
	}
	if c.YouTubeRPS <= 0 {
		return fmt.Errorf("%w: YOUTUBE_RPS must be > 0", internalerr.ErrInvalidConfig)
	}
	if _, err := c.Retention(); err != nil {
		return err
	}
	return nil
}

// Retention returns the parsed REPORT_RETENTION window.
func (c *Config) Retention() (time.Duration, error) {
	return maintenance.ParseRetention(c.ReportRetention)
}

// RequireYouTube reports whether live acquisition is configured.
func (c *Config) RequireYouTube() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY environment variable is required", internalerr.ErrInvalidConfig)
	}
	return nil
}

// validRegions are the region codes accepted for trending queries.
var validRegions = map[string]struct{}{
	"US": {}, "IN": {}, "GB": {}, "CA": {}, "AU": {},
	"DE": {}, "FR": {}, "JP": {}, "KR": {}, "BR": {},
}

// validCategories maps YouTube category IDs to their names.
var validCategories = map[string]string{
	"1":  "Film & Animation",
	"2":  "Autos & Vehicles",
	"10": "Music",
	"15": "Pets & Animals",
	"17": "Sports",
	"19": "Travel & Events",
	"20": "Gaming",
	"22": "People & Blogs",
	"23": "Comedy",
	"24": "Entertainment",
	"25": "News & Politics",
	"26": "Howto & Style",
	"27": "Education",
	"28": "Science & Technology",
	"29": "Nonprofits & Activism",
}

// ValidRegion reports whether code is an accepted region.
func ValidRegion(code string) bool {
	_, ok := validRegions[code]
	return ok
}

// ValidCategory reports whether id is a known category.
func ValidCategory(id string) bool {
	_, ok := validCategories[id]
	return ok
}

// Regions returns the accepted region codes, sorted.
func Regions() []string {
	out := make([]string, 0, len(validRegions))
	for r := range validRegions {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Categories returns a copy of the category catalogue.
func Categories() map[string]string {
	out := make(map[string]string, len(validCategories))
	for k, v := range validCategories {
		out[k] = v
	}
	return out
}
