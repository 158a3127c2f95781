package recommend

import "strings"

// Defaults for the ranking pipeline
const (
	DefaultFuzzyThreshold    = 70
	DefaultMaxFuzzySeeds     = 5
	DefaultNeighborWindow    = 19
	DefaultSimilarityWeight  = 0.7
	DefaultRatingWeight      = 0.3
	DefaultDescriptionLength = 200
	DefaultMaxResults        = 10
)

// NoFilter is the filter value that disables a category, language or difficulty filter.
// An empty value has the same effect.
const NoFilter = "All"

// Options tunes seed selection, neighbor expansion and final scoring
type Options struct {
	// FuzzyThreshold is the title ratio (0-100) a record must exceed to become a fuzzy seed
	FuzzyThreshold int `yaml:"fuzzy_threshold"`
	// MaxFuzzySeeds caps the number of fuzzy seeds
	MaxFuzzySeeds int `yaml:"max_fuzzy_seeds"`
	// NeighborWindow is how many nearest neighbors of each seed are inspected
	NeighborWindow    int     `yaml:"neighbor_window"`
	SimilarityWeight  float64 `yaml:"similarity_weight"`
	RatingWeight      float64 `yaml:"rating_weight"`
	DescriptionLength int     `yaml:"description_length"`
}

// DefaultOptions returns the standard pipeline configuration
func DefaultOptions() Options {
	return Options{
		FuzzyThreshold:    DefaultFuzzyThreshold,
		MaxFuzzySeeds:     DefaultMaxFuzzySeeds,
		NeighborWindow:    DefaultNeighborWindow,
		SimilarityWeight:  DefaultSimilarityWeight,
		RatingWeight:      DefaultRatingWeight,
		DescriptionLength: DefaultDescriptionLength,
	}
}

// Query is a single recommendation request
type Query struct {
	Text       string  `json:"query" yaml:"query"`
	Category   string  `json:"category,omitempty" yaml:"category,omitempty"`
	Language   string  `json:"language,omitempty" yaml:"language,omitempty"`
	Difficulty string  `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	MinRating  float64 `json:"min_rating" yaml:"min_rating"`
	MaxResults int     `json:"max_results" yaml:"max_results"`
}

func (q Query) limit() int {
	if q.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return q.MaxResults
}

func isNoFilter(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, NoFilter)
}
