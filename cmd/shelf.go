package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/recommender/internal/report"
	"github.com/lehigh-university-libraries/recommender/internal/shelf"
)

func newShelfCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "Manage your personal reading shelf",
		Long: `Keeps a personal list of books with a reading status and your own rating.

The shelf lives in a SQLite database (--shelf-db, default my_library.db) and is
independent of the catalog.`,
	}

	cmd.AddCommand(newShelfAddCmd(g))
	cmd.AddCommand(newShelfListCmd(g))
	cmd.AddCommand(newShelfShowCmd(g))
	cmd.AddCommand(newShelfSearchCmd(g))
	cmd.AddCommand(newShelfUpdateCmd(g))
	cmd.AddCommand(newShelfDeleteCmd(g))
	cmd.AddCommand(newShelfStatsCmd(g))

	return cmd
}

// withShelf opens the shelf for the duration of fn
func (g *globals) withShelf(fn func(*shelf.Store) error) error {
	store, err := g.openShelf()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func parseEntryID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid shelf entry id %q", arg)
	}
	return id, nil
}

func newShelfAddCmd(g *globals) *cobra.Command {
	var e shelf.Entry

	cmd := &cobra.Command{
		Use:     "add <title>",
		Short:   "Add a book to the shelf",
		Args:    cobra.ExactArgs(1),
		Example: `  recommender shelf add "The Go Programming Language" --author "Donovan, Kernighan" --status reading`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e.Title = args[0]
			return g.withShelf(func(store *shelf.Store) error {
				added, err := store.Add(e)
				if err != nil {
					return err
				}
				return report.ShelfEntries(cmd.OutOrStdout(), g.format, []shelf.Entry{added})
			})
		},
	}

	cmd.Flags().StringVar(&e.Author, "author", "", "Author (required)")
	cmd.Flags().StringVar(&e.Category, "category", "", "Category")
	cmd.Flags().StringVar(&e.Description, "description", "", "Description")
	cmd.Flags().Float64Var(&e.PersonalRating, "rating", 0, "Personal rating from 0 to 5")
	cmd.Flags().StringVar(&e.ReadingStatus, "status", shelf.StatusUnread, "Reading status (unread, reading, read)")
	cmd.Flags().StringVar(&e.Tags, "tags", "", "Comma separated tags")

	return cmd
}

func newShelfListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the shelf, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withShelf(func(store *shelf.Store) error {
				entries, err := store.List()
				if err != nil {
					return err
				}
				return report.ShelfEntries(cmd.OutOrStdout(), g.format, entries)
			})
		},
	}
}

func newShelfShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one shelf entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			return g.withShelf(func(store *shelf.Store) error {
				entry, err := store.Get(id)
				if err != nil {
					return err
				}
				return report.ShelfEntries(cmd.OutOrStdout(), g.format, []shelf.Entry{entry})
			})
		},
	}
}

func newShelfSearchCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search shelf titles, authors and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withShelf(func(store *shelf.Store) error {
				entries, err := store.Search(args[0])
				if err != nil {
					return err
				}
				return report.ShelfEntries(cmd.OutOrStdout(), g.format, entries)
			})
		},
	}
}

func newShelfUpdateCmd(g *globals) *cobra.Command {
	var (
		title, author, category, description, status, tags string
		rating                                              float64
	)

	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Change fields of a shelf entry",
		Args:    cobra.ExactArgs(1),
		Example: `  recommender shelf update 3 --status read --rating 4.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}

			// Only flags given on the command line are applied
			var p shelf.Patch
			flags := cmd.Flags()
			if flags.Changed("title") {
				p.Title = &title
			}
			if flags.Changed("author") {
				p.Author = &author
			}
			if flags.Changed("category") {
				p.Category = &category
			}
			if flags.Changed("description") {
				p.Description = &description
			}
			if flags.Changed("rating") {
				p.PersonalRating = &rating
			}
			if flags.Changed("status") {
				p.ReadingStatus = &status
			}
			if flags.Changed("tags") {
				p.Tags = &tags
			}

			return g.withShelf(func(store *shelf.Store) error {
				entry, err := store.Update(id, p)
				if err != nil {
					return err
				}
				return report.ShelfEntries(cmd.OutOrStdout(), g.format, []shelf.Entry{entry})
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&author, "author", "", "Author")
	cmd.Flags().StringVar(&category, "category", "", "Category")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().Float64Var(&rating, "rating", 0, "Personal rating from 0 to 5")
	cmd.Flags().StringVar(&status, "status", "", "Reading status (unread, reading, read)")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma separated tags")

	return cmd
}

func newShelfDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a book from the shelf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			return g.withShelf(func(store *shelf.Store) error {
				if err := store.Delete(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted shelf entry %d\n", id)
				return nil
			})
		},
	}
}

func newShelfStatsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the shelf",
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withShelf(func(store *shelf.Store) error {
				st, err := store.Stats()
				if err != nil {
					return err
				}
				return report.ShelfStats(cmd.OutOrStdout(), g.format, st)
			})
		},
	}
}
