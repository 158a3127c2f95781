package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/recommender/internal/config"
	"github.com/lehigh-university-libraries/recommender/internal/engine"
	"github.com/lehigh-university-libraries/recommender/internal/report"
	"github.com/lehigh-university-libraries/recommender/internal/shelf"
)

// globals holds the persistent flags and the configuration they resolve to
type globals struct {
	configPath string
	catalog    string
	shelfDB    string
	format     string
	verbose    bool

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "recommender",
		Short: "Content-based book recommendations for a programming book catalog",
		Long: `Recommender answers "books like this one" queries over a catalog of programming books.

Every record is turned into a TF-IDF vector built from its title, category, tags,
author and description. A query is matched against titles, expanded through the
pairwise similarity matrix, filtered, and ranked by similarity and rating.

The catalog can be CSV, JSONL or Parquet. A personal reading shelf is kept in SQLite.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			if g.catalog != "" {
				cfg.Catalog = g.catalog
			}
			if g.shelfDB != "" {
				cfg.ShelfDB = g.shelfDB
			}
			if g.verbose {
				cfg.LogLevel = "debug"
			}
			g.cfg = cfg

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			})))

			if !report.ValidFormat(g.format) {
				return fmt.Errorf("unsupported output format %q (supported: text, json, csv, yaml)", g.format)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to YAML config file (default ./"+config.DefaultPath+" if present)")
	cmd.PersistentFlags().StringVarP(&g.catalog, "catalog", "c", "", "Path to catalog file (.csv, .jsonl, .parquet)")
	cmd.PersistentFlags().StringVar(&g.shelfDB, "shelf-db", "", "Path to personal shelf SQLite database")
	cmd.PersistentFlags().StringVarP(&g.format, "format", "o", report.FormatText, "Output format (text, json, csv, yaml)")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newSearchCmd(g))
	cmd.AddCommand(newSimilarCmd(g))
	cmd.AddCommand(newTopCmd(g))
	cmd.AddCommand(newStatsCmd(g))
	cmd.AddCommand(newCategoriesCmd(g))
	cmd.AddCommand(newLanguagesCmd(g))
	cmd.AddCommand(newServeCmd(g))
	cmd.AddCommand(newShelfCmd(g))

	return cmd
}

// snapshot builds a catalog snapshot for one-shot commands
func (g *globals) snapshot(ctx context.Context) (*engine.Snapshot, error) {
	return engine.Build(ctx, g.cfg.Catalog, g.cfg.Engine)
}

func (g *globals) openShelf() (*shelf.Store, error) {
	return shelf.Open(g.cfg.ShelfDB)
}
