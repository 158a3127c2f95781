package catalog

// Difficulty is the reading level derived from page count and tags
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// RatingTier is the discrete label derived from a record's rating
type RatingTier string

const (
	Excellent RatingTier = "Excellent"
	VeryGood  RatingTier = "VeryGood"
	Good      RatingTier = "Good"
	Average   RatingTier = "Average"
	Poor      RatingTier = "Poor"
)

// Sentinels used when the source leaves a field empty
const (
	NoDescription = "no description"
	UnknownAuthor = "unknown author"
)

// Record is a single normalized catalog entry
type Record struct {
	ID          int        `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Author      string     `json:"author" yaml:"author"`
	Category    string     `json:"category" yaml:"category"`
	Language    string     `json:"language" yaml:"language"`
	Description string     `json:"description" yaml:"description"`
	Tags        string     `json:"tags" yaml:"tags"`
	Rating      float64    `json:"rating" yaml:"rating"`
	Year        int        `json:"year" yaml:"year"`
	Pages       int        `json:"pages" yaml:"pages"`
	Difficulty  Difficulty `json:"difficulty" yaml:"difficulty"`
	RatingTier  RatingTier `json:"rating_tier" yaml:"rating_tier"`
}

// Corpus is the ordered catalog produced by a single load.
// It is never mutated after Load returns.
type Corpus []Record

// IndexOf returns the position of the record with the given identifier, or -1
func (c Corpus) IndexOf(id int) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}
