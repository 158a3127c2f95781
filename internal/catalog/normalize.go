package catalog

import "strings"

var (
	beginnerKeywords = []string{"beginner", "introduction", "basics", "مبتدئ"}
	advancedKeywords = []string{"advanced", "deep", "comprehensive", "متقدم"}
)

// rawRecord carries source values before defaults and derived fields are applied.
// A nil pointer means the source had no value for that field.
type rawRecord struct {
	ID          int
	Title       string
	Author      *string
	Category    string
	Language    string
	Description *string
	Tags        *string
	Rating      float64
	Year        int
	Pages       int
}

// normalize fills defaults and derives difficulty and rating tier
func normalize(raw rawRecord) Record {
	rec := Record{
		ID:          raw.ID,
		Title:       raw.Title,
		Author:      valueOr(raw.Author, UnknownAuthor),
		Category:    raw.Category,
		Language:    raw.Language,
		Description: valueOr(raw.Description, NoDescription),
		Tags:        valueOr(raw.Tags, ""),
		Rating:      raw.Rating,
		Year:        raw.Year,
		Pages:       raw.Pages,
	}
	rec.Difficulty = DeriveDifficulty(rec.Pages, rec.Tags)
	rec.RatingTier = DeriveRatingTier(rec.Rating)
	return rec
}

func valueOr(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return *v
}

// DeriveDifficulty classifies a book by page count, using tags to break
// the short and medium bands.
func DeriveDifficulty(pages int, tags string) Difficulty {
	t := strings.ToLower(tags)
	switch {
	case pages < 300:
		if containsAny(t, beginnerKeywords) {
			return Beginner
		}
		return Intermediate
	case pages < 600:
		if containsAny(t, advancedKeywords) {
			return Advanced
		}
		return Intermediate
	default:
		return Advanced
	}
}

// DeriveRatingTier maps a rating onto its tier, highest threshold first.
// Out-of-range ratings fall through to Poor.
func DeriveRatingTier(rating float64) RatingTier {
	switch {
	case rating >= 4.7:
		return Excellent
	case rating >= 4.3:
		return VeryGood
	case rating >= 4.0:
		return Good
	case rating >= 3.5:
		return Average
	default:
		return Poor
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
