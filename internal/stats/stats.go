package stats

import (
	"sort"

	"github.com/lehigh-university-libraries/recommender/internal/catalog"
)

// Count is a value paired with the number of records carrying it
type Count struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// YearRange spans the earliest and latest publication years
type YearRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Stats summarizes a corpus
type Stats struct {
	Total                  int                        `json:"total" yaml:"total"`
	DistinctCategories     int                        `json:"distinct_categories" yaml:"distinct_categories"`
	DistinctLanguages      int                        `json:"distinct_languages" yaml:"distinct_languages"`
	MeanRating             float64                    `json:"mean_rating" yaml:"mean_rating"`
	Years                  YearRange                  `json:"year_range" yaml:"year_range"`
	TopCategories          []Count                    `json:"top_categories" yaml:"top_categories"`
	TopLanguages           []Count                    `json:"top_languages" yaml:"top_languages"`
	DifficultyDistribution map[catalog.Difficulty]int `json:"difficulty_distribution" yaml:"difficulty_distribution"`
}

const (
	topCategoryCount = 5
	topLanguageCount = 3
)

// Summarize computes corpus-wide statistics. An empty corpus yields zero values.
func Summarize(corpus catalog.Corpus) Stats {
	s := Stats{
		Total:                  len(corpus),
		TopCategories:          []Count{},
		TopLanguages:           []Count{},
		DifficultyDistribution: map[catalog.Difficulty]int{},
	}
	if len(corpus) == 0 {
		return s
	}

	categories := Categories(corpus)
	languages := Languages(corpus)
	s.DistinctCategories = len(categories)
	s.DistinctLanguages = len(languages)
	s.TopCategories = top(categories, topCategoryCount)
	s.TopLanguages = top(languages, topLanguageCount)

	sum := 0.0
	s.Years = YearRange{Min: corpus[0].Year, Max: corpus[0].Year}
	for _, rec := range corpus {
		sum += rec.Rating
		if rec.Year < s.Years.Min {
			s.Years.Min = rec.Year
		}
		if rec.Year > s.Years.Max {
			s.Years.Max = rec.Year
		}
		s.DifficultyDistribution[rec.Difficulty]++
	}
	s.MeanRating = sum / float64(len(corpus))

	return s
}

// Categories lists distinct categories with their record counts, sorted by name
func Categories(corpus catalog.Corpus) []Count {
	return countBy(corpus, func(r catalog.Record) string { return r.Category })
}

// Languages lists distinct programming languages with their record counts, sorted by name
func Languages(corpus catalog.Corpus) []Count {
	return countBy(corpus, func(r catalog.Record) string { return r.Language })
}

func countBy(corpus catalog.Corpus, key func(catalog.Record) string) []Count {
	counts := make(map[string]int)
	for _, rec := range corpus {
		counts[key(rec)]++
	}
	out := make([]Count, 0, len(counts))
	for v, c := range counts {
		out = append(out, Count{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Value < out[j].Value
	})
	return out
}

// top returns the n largest counts; equal counts keep name order
func top(counts []Count, n int) []Count {
	sorted := make([]Count, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
