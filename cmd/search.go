package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/recommender/internal/recommend"
	"github.com/lehigh-university-libraries/recommender/internal/report"
)

func newSearchCmd(g *globals) *cobra.Command {
	var q recommend.Query

	cmd := &cobra.Command{
		Use:   "search [title or keywords]",
		Short: "Recommend books similar to a title",
		Long: `Finds books whose titles match the query and recommends their nearest
neighbors, filtered and ranked by similarity and rating.

Titles are matched by substring first, then by fuzzy ratio. A query that matches
no title falls back to a keyword search over every field, and then to the
highest rated books. An empty query lists the highest rated books.`,
		Example: `  # Books like Fluent Python
  recommender search "fluent python"

  # Beginner Python books rated 4.5 or higher, as JSON
  recommender search python --difficulty Beginner --min-rating 4.5 -o json

  # Web development books in JavaScript
  recommender search "web" --category "Web Development" --language JavaScript`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Text = strings.Join(args, " ")

			s, err := g.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			res := s.Recommend(q)

			if g.format == report.FormatText {
				fmt.Fprintf(cmd.OutOrStdout(), "Match: %s\n", res.Match)
			}
			return report.Recommendations(cmd.OutOrStdout(), g.format, res.Items)
		},
	}

	cmd.Flags().StringVar(&q.Category, "category", recommend.NoFilter, "Category filter (substring, case-insensitive)")
	cmd.Flags().StringVar(&q.Language, "language", recommend.NoFilter, "Programming language filter (substring, case-insensitive)")
	cmd.Flags().StringVar(&q.Difficulty, "difficulty", recommend.NoFilter, "Difficulty filter (Beginner, Intermediate, Advanced)")
	cmd.Flags().Float64Var(&q.MinRating, "min-rating", 0, "Minimum rating")
	cmd.Flags().IntVarP(&q.MaxResults, "limit", "n", recommend.DefaultMaxResults, "Maximum number of results")

	return cmd
}

func newSimilarCmd(g *globals) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "similar <book-id>",
		Short:   "List the books most similar to a catalog record",
		Args:    cobra.ExactArgs(1),
		Example: `  recommender similar 42 -n 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid book id %q", args[0])
			}

			s, err := g.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			rec, ok := s.Record(id)
			if !ok {
				return fmt.Errorf("book %d not found in %s", id, s.Source)
			}

			if g.format == report.FormatText {
				fmt.Fprintf(cmd.OutOrStdout(), "Books similar to %q\n", rec.Title)
			}
			return report.Recommendations(cmd.OutOrStdout(), g.format, s.Similar(id, limit))
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", recommend.DefaultMaxResults, "Maximum number of results")

	return cmd
}

func newTopCmd(g *globals) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "top",
		Short:   "List the highest rated books",
		Example: `  recommender top -n 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			return report.Recommendations(cmd.OutOrStdout(), g.format, s.TopRated(limit))
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", recommend.DefaultMaxResults, "Maximum number of results")

	return cmd
}
