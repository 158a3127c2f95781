package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/recommender/internal/catalog"
	"github.com/lehigh-university-libraries/recommender/internal/recommend"
	"github.com/lehigh-university-libraries/recommender/internal/shelf"
	"github.com/lehigh-university-libraries/recommender/internal/stats"
)

// Formats accepted by every printer
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// cardDescriptionLength bounds the description shown on a text card
const cardDescriptionLength = 150

// ValidFormat reports whether format is supported
func ValidFormat(format string) bool {
	switch format {
	case FormatText, FormatJSON, FormatCSV, FormatYAML:
		return true
	}
	return false
}

// Recommendations prints ranked books
func Recommendations(w io.Writer, format string, items []recommend.Recommendation) error {
	switch format {
	case FormatText:
		if len(items) == 0 {
			fmt.Fprintln(w, "No results found.")
			return nil
		}
		fmt.Fprintf(w, "Results (%d books):\n", len(items))
		for i, item := range items {
			printCard(w, i+1, item.Record, item.Score)
		}
		return nil
	case FormatCSV:
		header := []string{"ID", "Title", "Author", "Category", "Language", "Rating", "Rating Tier", "Year", "Pages", "Difficulty", "Similarity", "Score"}
		rows := make([][]string, 0, len(items))
		for _, item := range items {
			rows = append(rows, []string{
				strconv.Itoa(item.ID),
				item.Title,
				item.Author,
				item.Category,
				item.Language,
				fmt.Sprintf("%.1f", item.Rating),
				string(item.RatingTier),
				strconv.Itoa(item.Year),
				strconv.Itoa(item.Pages),
				string(item.Difficulty),
				fmt.Sprintf("%.4f", item.Similarity),
				fmt.Sprintf("%.4f", item.Score),
			})
		}
		return writeCSV(w, header, rows)
	default:
		return writeStructured(w, format, items)
	}
}

// printCard prints one book the way the interactive front end shows it
func printCard(w io.Writer, index int, rec catalog.Record, score float64) {
	stars := strings.Repeat("*", max(0, min(5, int(rec.Rating))))

	fmt.Fprintf(w, "\n%d. %s\n", index, rec.Title)
	fmt.Fprintf(w, "   Author:     %s\n", rec.Author)
	fmt.Fprintf(w, "   Category:   %s\n", rec.Category)
	fmt.Fprintf(w, "   Language:   %s\n", rec.Language)
	fmt.Fprintf(w, "   Rating:     %s (%.1f) - %s\n", stars, rec.Rating, rec.RatingTier)
	fmt.Fprintf(w, "   Year:       %d\n", rec.Year)
	fmt.Fprintf(w, "   Pages:      %d\n", rec.Pages)
	fmt.Fprintf(w, "   Difficulty: %s\n", rec.Difficulty)
	if score > 0 {
		fmt.Fprintf(w, "   Score:      %.3f\n", score)
	}
	if rec.Description != "" && rec.Description != catalog.NoDescription {
		fmt.Fprintf(w, "   About:      %s\n", recommend.Truncate(rec.Description, cardDescriptionLength))
	}
	if rec.Tags != "" {
		fmt.Fprintf(w, "   Tags:       %s\n", rec.Tags)
	}
	fmt.Fprintf(w, "   %s\n", strings.Repeat("-", 70))
}

// Stats prints a corpus summary
func Stats(w io.Writer, format string, s stats.Stats) error {
	switch format {
	case FormatText:
		fmt.Fprintln(w, strings.Repeat("=", 70))
		fmt.Fprintln(w, "CATALOG STATISTICS")
		fmt.Fprintln(w, strings.Repeat("=", 70))
		fmt.Fprintf(w, "Total books:        %d\n", s.Total)
		fmt.Fprintf(w, "Categories:         %d\n", s.DistinctCategories)
		fmt.Fprintf(w, "Languages:          %d\n", s.DistinctLanguages)
		fmt.Fprintf(w, "Average rating:     %.2f\n", s.MeanRating)
		fmt.Fprintf(w, "Years:              %d - %d\n", s.Years.Min, s.Years.Max)

		fmt.Fprintln(w, "\nTop categories:")
		for _, c := range s.TopCategories {
			fmt.Fprintf(w, "  - %s: %d books\n", c.Value, c.Count)
		}
		fmt.Fprintln(w, "\nTop languages:")
		for _, c := range s.TopLanguages {
			fmt.Fprintf(w, "  - %s: %d books\n", c.Value, c.Count)
		}
		fmt.Fprintln(w, "\nDifficulty distribution:")
		for _, d := range []catalog.Difficulty{catalog.Beginner, catalog.Intermediate, catalog.Advanced} {
			if n, ok := s.DifficultyDistribution[d]; ok {
				fmt.Fprintf(w, "  - %s: %d books\n", d, n)
			}
		}
		return nil
	case FormatCSV:
		rows := [][]string{
			{"total", strconv.Itoa(s.Total)},
			{"distinct_categories", strconv.Itoa(s.DistinctCategories)},
			{"distinct_languages", strconv.Itoa(s.DistinctLanguages)},
			{"mean_rating", fmt.Sprintf("%.4f", s.MeanRating)},
			{"year_min", strconv.Itoa(s.Years.Min)},
			{"year_max", strconv.Itoa(s.Years.Max)},
		}
		return writeCSV(w, []string{"Metric", "Value"}, rows)
	default:
		return writeStructured(w, format, s)
	}
}

// Counts prints a value/count listing such as the available categories
func Counts(w io.Writer, format, title string, counts []stats.Count) error {
	switch format {
	case FormatText:
		fmt.Fprintf(w, "%s:\n", title)
		fmt.Fprintln(w, strings.Repeat("-", 50))
		for _, c := range counts {
			fmt.Fprintf(w, "  - %s: %d books\n", c.Value, c.Count)
		}
		return nil
	case FormatCSV:
		rows := make([][]string, 0, len(counts))
		for _, c := range counts {
			rows = append(rows, []string{c.Value, strconv.Itoa(c.Count)})
		}
		return writeCSV(w, []string{"Value", "Count"}, rows)
	default:
		return writeStructured(w, format, counts)
	}
}

// ShelfEntries prints personal shelf entries
func ShelfEntries(w io.Writer, format string, entries []shelf.Entry) error {
	switch format {
	case FormatText:
		if len(entries) == 0 {
			fmt.Fprintln(w, "Your shelf is empty.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(w, "[%d] %s by %s\n", e.ID, e.Title, e.Author)
			fmt.Fprintf(w, "     Status: %s  Rating: %.1f  Added: %s\n", e.ReadingStatus, e.PersonalRating, e.DateAdded.Format("2006-01-02"))
			if e.Tags != "" {
				fmt.Fprintf(w, "     Tags: %s\n", e.Tags)
			}
		}
		return nil
	case FormatCSV:
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				strconv.FormatInt(e.ID, 10),
				e.Title,
				e.Author,
				e.Category,
				fmt.Sprintf("%.1f", e.PersonalRating),
				e.ReadingStatus,
				e.Tags,
				e.DateAdded.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
		return writeCSV(w, []string{"ID", "Title", "Author", "Category", "Rating", "Status", "Tags", "Added"}, rows)
	default:
		return writeStructured(w, format, entries)
	}
}

// ShelfStats prints the shelf summary
func ShelfStats(w io.Writer, format string, s shelf.Stats) error {
	switch format {
	case FormatText:
		fmt.Fprintf(w, "Books on shelf:  %d\n", s.Total)
		fmt.Fprintf(w, "Average rating:  %.1f\n", s.AverageRating)
		statuses := make([]string, 0, len(s.ByStatus))
		for status := range s.ByStatus {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			fmt.Fprintf(w, "  - %s: %d\n", status, s.ByStatus[status])
		}
		return nil
	case FormatCSV:
		rows := [][]string{
			{"total", strconv.Itoa(s.Total)},
			{"average_rating", fmt.Sprintf("%.1f", s.AverageRating)},
		}
		return writeCSV(w, []string{"Metric", "Value"}, rows)
	default:
		return writeStructured(w, format, s)
	}
}

func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}
