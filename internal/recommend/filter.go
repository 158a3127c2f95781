package recommend

import (
	"strings"

	"github.com/lehigh-university-libraries/recommender/internal/catalog"
)

// filter is the per-record predicate built from a query's structured fields
type filter struct {
	category   string
	language   string
	difficulty string
	minRating  float64
}

func newFilter(q Query) filter {
	f := filter{minRating: q.MinRating}
	if !isNoFilter(q.Category) {
		f.category = strings.ToLower(strings.TrimSpace(q.Category))
	}
	if !isNoFilter(q.Language) {
		f.language = strings.ToLower(strings.TrimSpace(q.Language))
	}
	if !isNoFilter(q.Difficulty) {
		f.difficulty = strings.TrimSpace(q.Difficulty)
	}
	return f
}

// pass reports whether rec satisfies every active filter.
// Category and language match as substrings, difficulty exactly.
func (f filter) pass(rec catalog.Record) bool {
	if f.category != "" && !strings.Contains(strings.ToLower(rec.Category), f.category) {
		return false
	}
	if f.language != "" && !strings.Contains(strings.ToLower(rec.Language), f.language) {
		return false
	}
	if f.difficulty != "" && !strings.EqualFold(string(rec.Difficulty), f.difficulty) {
		return false
	}
	return rec.Rating >= f.minRating
}
