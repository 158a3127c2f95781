package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/recommender/internal/engine"
	"github.com/lehigh-university-libraries/recommender/internal/handlers"
	"github.com/lehigh-university-libraries/recommender/internal/shelf"
	"github.com/lehigh-university-libraries/recommender/internal/watch"
)

func newServeCmd(g *globals) *cobra.Command {
	var port string
	var addr string
	var watchCatalog bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the recommendation HTTP API",
		Long: `Starts the recommendation API on the configured address.

The catalog is loaded in the background; until the first snapshot is published
every catalog endpoint answers 503. POST /api/reload rebuilds the snapshot, and
with --watch the catalog file is reloaded whenever it changes on disk. A failed
reload keeps the previous snapshot serving.`,
		Example: `  # Start server on default port 8888
  recommender serve

  # Start server on custom port and reload when the catalog changes
  recommender serve --port 3000 --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			listen := g.cfg.Addr
			if addr != "" {
				listen = addr
			}
			if port != "" {
				listen = ":" + port
			}

			holder := engine.NewHolder(g.cfg.Catalog, g.cfg.Engine)

			var store *shelf.Store
			if g.cfg.ShelfDB != "" {
				s, err := g.openShelf()
				if err != nil {
					slog.Warn("Shelf unavailable, shelf endpoints disabled", "path", g.cfg.ShelfDB, "err", err)
				} else {
					store = s
					defer store.Close()
				}
			}

			loaded := holder.LoadInBackground(ctx)
			go func() {
				if err := <-loaded; err != nil {
					slog.Error("Initial catalog load failed, serving 503 until a reload succeeds", "err", err)
				}
			}()

			if watchCatalog {
				w, err := startWatcher(ctx, holder)
				if err != nil {
					return err
				}
				defer w.Stop()
			}

			handler := handlers.New(holder, store)
			server := &http.Server{
				Addr:              listen,
				Handler:           handler.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Recommender API available", "addr", listen, "catalog", g.cfg.Catalog)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-ctx.Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides --addr)")
	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (default from config, :8888)")
	cmd.Flags().BoolVar(&watchCatalog, "watch", false, "Reload the catalog when the file changes")

	return cmd
}

func startWatcher(ctx context.Context, holder *engine.Holder) (*watch.Watcher, error) {
	w, err := watch.NewWatcher(watch.DefaultDebounce)
	if err != nil {
		return nil, err
	}
	err = w.Watch(holder.Source(), func() {
		slog.Info("Catalog changed, reloading", "source", holder.Source())
		// errors are logged by the holder and the old snapshot stays published
		_, _ = holder.Reload(ctx)
	})
	if err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}
