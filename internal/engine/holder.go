package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lehigh-university-libraries/recommender/internal/telemetry"
)

// ErrNotReady is returned before the first snapshot has been published
var ErrNotReady = errors.New("catalog snapshot not ready")

// Holder publishes the current Snapshot. Readers never block: a reload
// builds a complete new snapshot and swaps the pointer, so queries already
// holding the old snapshot finish against it.
type Holder struct {
	source   string
	settings Settings

	current atomic.Pointer[Snapshot]
	// reloadMu serializes builds; readers never take it
	reloadMu sync.Mutex
}

// NewHolder creates a holder for the catalog at source. Nothing is loaded until Reload.
func NewHolder(source string, settings Settings) *Holder {
	return &Holder{
		source:   source,
		settings: settings,
	}
}

// Source returns the catalog path the holder reloads from
func (h *Holder) Source() string {
	return h.source
}

// Current returns the published snapshot
func (h *Holder) Current() (*Snapshot, error) {
	s := h.current.Load()
	if s == nil {
		return nil, ErrNotReady
	}
	return s, nil
}

// Publish replaces the current snapshot
func (h *Holder) Publish(s *Snapshot) {
	h.current.Store(s)
	telemetry.CatalogRecords.Set(float64(len(s.Corpus)))
}

// Reload builds a fresh snapshot and publishes it. On failure the previous
// snapshot stays published and the error is returned.
func (h *Holder) Reload(ctx context.Context) (*Snapshot, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	start := time.Now()
	s, err := Build(ctx, h.source, h.settings)
	telemetry.ReloadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		telemetry.ReloadsTotal.WithLabelValues("failure").Inc()
		slog.Error("Catalog reload failed", "source", h.source, "err", err)
		return nil, err
	}

	h.Publish(s)
	telemetry.ReloadsTotal.WithLabelValues("success").Inc()
	slog.Info("Catalog snapshot published", "source", h.source, "records", len(s.Corpus))

	return s, nil
}

// LoadInBackground starts the first build without blocking the caller.
// The returned channel receives the build error (or nil) and is then closed.
func (h *Holder) LoadInBackground(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		_, err := h.Reload(ctx)
		done <- err
	}()
	return done
}
