package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/recommender/internal/report"
)

func newStatsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			return report.Stats(cmd.OutOrStdout(), g.format, s.Stats())
		},
	}
}

func newCategoriesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories with book counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			return report.Counts(cmd.OutOrStdout(), g.format, "Categories", s.Categories())
		},
	}
}

func newLanguagesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List programming languages with book counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			return report.Counts(cmd.OutOrStdout(), g.format, "Languages", s.Languages())
		},
	}
}
