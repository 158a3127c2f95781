package stats

import (
	"fmt"
	"math"
	"testing"

	"github.com/lehigh-university-libraries/recommender/internal/catalog"
)

func TestSummarize(t *testing.T) {
	// 100 records, 10 categories with skewed sizes, 4 languages
	var corpus catalog.Corpus
	sizes := []int{20, 15, 12, 11, 10, 9, 8, 6, 5, 4}
	languages := []string{"Python", "Go", "Rust", "Java"}
	id := 1
	for c, size := range sizes {
		for k := 0; k < size; k++ {
			corpus = append(corpus, catalog.Record{
				ID:         id,
				Title:      fmt.Sprintf("Book %d", id),
				Category:   fmt.Sprintf("Category %02d", c),
				Language:   languages[id%len(languages)],
				Rating:     4.0,
				Year:       2000 + id%20,
				Difficulty: catalog.Intermediate,
			})
			id++
		}
	}
	corpus[0].Rating = 5.0
	corpus[0].Difficulty = catalog.Beginner

	s := Summarize(corpus)

	if s.Total != 100 {
		t.Errorf("Expected Total=100, got %d", s.Total)
	}
	if s.DistinctCategories != 10 {
		t.Errorf("Expected DistinctCategories=10, got %d", s.DistinctCategories)
	}
	if s.DistinctLanguages != 4 {
		t.Errorf("Expected DistinctLanguages=4, got %d", s.DistinctLanguages)
	}
	if len(s.TopCategories) != 5 {
		t.Fatalf("Expected 5 top categories, got %d", len(s.TopCategories))
	}
	for k, want := range sizes[:5] {
		if s.TopCategories[k].Count != want {
			t.Errorf("TopCategories[%d]: expected count %d, got %d", k, want, s.TopCategories[k].Count)
		}
	}
	if s.TopCategories[0].Value != "Category 00" {
		t.Errorf("Expected largest category first, got %s", s.TopCategories[0].Value)
	}
	if len(s.TopLanguages) != 3 {
		t.Errorf("Expected 3 top languages, got %d", len(s.TopLanguages))
	}
	if want := 4.01; math.Abs(s.MeanRating-want) > 1e-9 {
		t.Errorf("Expected MeanRating=%f, got %f", want, s.MeanRating)
	}
	if s.Years.Min != 2000 || s.Years.Max != 2019 {
		t.Errorf("Expected years 2000-2019, got %d-%d", s.Years.Min, s.Years.Max)
	}
	if s.DifficultyDistribution[catalog.Beginner] != 1 || s.DifficultyDistribution[catalog.Intermediate] != 99 {
		t.Errorf("Unexpected difficulty distribution %v", s.DifficultyDistribution)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.MeanRating != 0 || s.DistinctCategories != 0 {
		t.Errorf("Expected zero stats, got %+v", s)
	}
	if s.TopCategories == nil || s.TopLanguages == nil || s.DifficultyDistribution == nil {
		t.Error("Expected empty, non-nil collections")
	}
}

func TestTopTiesKeepNameOrder(t *testing.T) {
	counts := []Count{{"a", 2}, {"b", 3}, {"c", 2}, {"d", 1}}
	got := top(counts, 3)
	expected := []Count{{"b", 3}, {"a", 2}, {"c", 2}}
	for k := range expected {
		if got[k] != expected[k] {
			t.Errorf("Position %d: expected %v, got %v", k, expected[k], got[k])
		}
	}
	if counts[0].Value != "a" {
		t.Error("top must not reorder its input")
	}
}

func TestCategoriesAndLanguages(t *testing.T) {
	corpus := catalog.Corpus{
		{Category: "Web", Language: "JavaScript"},
		{Category: "Data", Language: "Python"},
		{Category: "Web", Language: "Python"},
	}

	cats := Categories(corpus)
	if len(cats) != 2 || cats[0] != (Count{"Data", 1}) || cats[1] != (Count{"Web", 2}) {
		t.Errorf("Unexpected categories %v", cats)
	}
	langs := Languages(corpus)
	if len(langs) != 2 || langs[0] != (Count{"JavaScript", 1}) || langs[1] != (Count{"Python", 2}) {
		t.Errorf("Unexpected languages %v", langs)
	}
}
