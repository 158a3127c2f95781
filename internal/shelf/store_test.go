package shelf

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "shelf.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndGet(t *testing.T) {
	s := openTestStore(t)

	added, err := s.Add(Entry{Title: "  The Go Programming Language ", Author: "Donovan", PersonalRating: 4.5, Tags: "go,classic"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added.ID == 0 {
		t.Error("Expected an id to be assigned")
	}
	if added.Title != "The Go Programming Language" {
		t.Errorf("Expected trimmed title, got %q", added.Title)
	}
	if added.ReadingStatus != StatusUnread {
		t.Errorf("Expected default status %s, got %s", StatusUnread, added.ReadingStatus)
	}
	if added.DateAdded.IsZero() {
		t.Error("Expected date to be set")
	}

	got, err := s.Get(added.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != added.Title || got.Author != added.Author || got.PersonalRating != 4.5 || got.Tags != "go,classic" {
		t.Errorf("Get returned %+v, expected %+v", got, added)
	}
	if !got.DateAdded.Equal(added.DateAdded) {
		t.Errorf("Expected date %v, got %v", added.DateAdded, got.DateAdded)
	}
}

func TestAddValidation(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		name  string
		entry Entry
	}{
		{name: "missing title", entry: Entry{Author: "A"}},
		{name: "blank author", entry: Entry{Title: "T", Author: "   "}},
		{name: "rating too high", entry: Entry{Title: "T", Author: "A", PersonalRating: 5.5}},
		{name: "negative rating", entry: Entry{Title: "T", Author: "A", PersonalRating: -1}},
		{name: "unknown status", entry: Entry{Title: "T", Author: "A", ReadingStatus: "abandoned"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Add(tt.entry); !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("Expected ErrInvalidEntry, got %v", err)
			}
		})
	}
}

func TestListAndSearch(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Title: "Fluent Python", Author: "Ramalho", Tags: "python", DateAdded: base},
		{Title: "Learning Go", Author: "Bodner", Tags: "go", DateAdded: base.Add(time.Hour)},
		{Title: "100% Go", Author: "Anon", Tags: "go_lang", DateAdded: base.Add(2 * time.Hour)},
	}
	for _, e := range entries {
		if _, err := s.Add(e); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 || list[0].Title != "100% Go" || list[2].Title != "Fluent Python" {
		t.Errorf("Expected newest first, got %v", titles(list))
	}

	tests := []struct {
		query    string
		expected []string
	}{
		{"go", []string{"100% Go", "Learning Go"}},
		{"RAMALHO", []string{"Fluent Python"}},
		{"%", []string{"100% Go"}},
		{"_", []string{"100% Go"}},
		{"rust", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := s.Search(tt.query)
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, titles(got))
			}
			for k := range got {
				if got[k].Title != tt.expected[k] {
					t.Errorf("Position %d: expected %q, got %q", k, tt.expected[k], got[k].Title)
				}
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	s := openTestStore(t)
	added, err := s.Add(Entry{Title: "Clean Code", Author: "Martin"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	status := StatusRead
	rating := 4.0
	updated, err := s.Update(added.ID, Patch{ReadingStatus: &status, PersonalRating: &rating})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ReadingStatus != StatusRead || updated.PersonalRating != 4.0 || updated.Title != "Clean Code" {
		t.Errorf("Unexpected update result %+v", updated)
	}

	got, _ := s.Get(added.ID)
	if got.ReadingStatus != StatusRead || got.PersonalRating != 4.0 {
		t.Errorf("Update not persisted: %+v", got)
	}

	bad := "finished"
	if _, err := s.Update(added.ID, Patch{ReadingStatus: &bad}); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Expected ErrInvalidEntry, got %v", err)
	}
	if _, err := s.Update(999, Patch{ReadingStatus: &status}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	added, err := s.Add(Entry{Title: "Refactoring", Author: "Fowler"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := s.Delete(added.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(added.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(added.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)

	empty, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if empty.Total != 0 || empty.AverageRating != 0 || len(empty.ByStatus) != 0 {
		t.Errorf("Expected empty stats, got %+v", empty)
	}

	for _, e := range []Entry{
		{Title: "A", Author: "X", ReadingStatus: StatusRead, PersonalRating: 5},
		{Title: "B", Author: "X", ReadingStatus: StatusRead, PersonalRating: 4},
		{Title: "C", Author: "X", ReadingStatus: StatusReading, PersonalRating: 4},
		{Title: "D", Author: "X"},
	} {
		if _, err := s.Add(e); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if st.Total != 4 {
		t.Errorf("Expected Total=4, got %d", st.Total)
	}
	if st.ByStatus[StatusRead] != 2 || st.ByStatus[StatusReading] != 1 || st.ByStatus[StatusUnread] != 1 {
		t.Errorf("Unexpected status counts %v", st.ByStatus)
	}
	// unrated entries are left out of the average
	if st.AverageRating != 4.3 {
		t.Errorf("Expected AverageRating=4.3, got %v", st.AverageRating)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if list, _ := s.List(); len(list) != 0 {
		t.Errorf("Expected empty shelf after reset, got %d", len(list))
	}
}

func titles(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}
