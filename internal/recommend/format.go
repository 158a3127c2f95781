package recommend

import (
	"github.com/lehigh-university-libraries/recommender/internal/catalog"
)

const ellipsis = "..."

// format copies rec for display, shortening its description
func format(rec catalog.Record, similarity, score float64, opts Options) Recommendation {
	rec.Description = Truncate(rec.Description, opts.DescriptionLength)
	return Recommendation{
		Record:     rec,
		Similarity: similarity,
		Score:      score,
	}
}

// Truncate shortens s to maxLen runes followed by an ellipsis.
// maxLen <= 0 leaves s untouched.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + ellipsis
}
