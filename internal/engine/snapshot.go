package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/recommender/internal/catalog"
	"github.com/lehigh-university-libraries/recommender/internal/features"
	"github.com/lehigh-university-libraries/recommender/internal/recommend"
	"github.com/lehigh-university-libraries/recommender/internal/similarity"
	"github.com/lehigh-university-libraries/recommender/internal/stats"
	"github.com/lehigh-university-libraries/recommender/internal/telemetry"
)

// Settings configures snapshot construction and querying
type Settings struct {
	Features features.Config   `yaml:"features"`
	Ranking  recommend.Options `yaml:"ranking"`
}

// DefaultSettings returns the standard vectorizer and ranking configuration
func DefaultSettings() Settings {
	return Settings{
		Features: features.DefaultConfig(),
		Ranking:  recommend.DefaultOptions(),
	}
}

// Snapshot is a loaded catalog with its feature and similarity matrices.
// Nothing in a Snapshot changes after Build returns, so any number of
// goroutines may query it at once.
type Snapshot struct {
	Source     string
	LoadedAt   time.Time
	Corpus     catalog.Corpus
	Features   *features.Matrix
	Similarity *similarity.Matrix

	ranking recommend.Options
}

// Build loads source and computes everything a query needs
func Build(ctx context.Context, source string, settings Settings) (*Snapshot, error) {
	start := time.Now()

	corpus, err := catalog.NewLoader(source).Load()
	if err != nil {
		return nil, err
	}
	loaded := time.Now()

	fm := features.Build(corpus, settings.Features)
	vectorized := time.Now()

	sim, err := similarity.Build(ctx, fm)
	if err != nil {
		return nil, fmt.Errorf("failed to build similarity matrix: %w", err)
	}

	slog.Info("Catalog snapshot built",
		"source", source,
		"records", len(corpus),
		"vocabulary", len(fm.Vocabulary),
		"load", loaded.Sub(start),
		"vectorize", vectorized.Sub(loaded),
		"similarity", time.Since(vectorized))

	return &Snapshot{
		Source:     source,
		LoadedAt:   time.Now(),
		Corpus:     corpus,
		Features:   fm,
		Similarity: sim,
		ranking:    settings.Ranking,
	}, nil
}

// NewSnapshot assembles a snapshot from an already loaded corpus
func NewSnapshot(ctx context.Context, corpus catalog.Corpus, settings Settings) (*Snapshot, error) {
	fm := features.Build(corpus, settings.Features)
	sim, err := similarity.Build(ctx, fm)
	if err != nil {
		return nil, fmt.Errorf("failed to build similarity matrix: %w", err)
	}
	return &Snapshot{
		LoadedAt:   time.Now(),
		Corpus:     corpus,
		Features:   fm,
		Similarity: sim,
		ranking:    settings.Ranking,
	}, nil
}

// Recommend runs the ranking pipeline for q
func (s *Snapshot) Recommend(q recommend.Query) recommend.Result {
	start := time.Now()
	res := recommend.Recommend(s.Corpus, s.Similarity, q, s.ranking)
	telemetry.RecommendationDuration.Observe(time.Since(start).Seconds())
	telemetry.RecommendationsTotal.WithLabelValues(string(res.Match)).Inc()

	slog.Debug("Recommendation served",
		"query", q.Text,
		"match", res.Match,
		"seeds", len(res.Seeds),
		"results", len(res.Items),
		"elapsed", time.Since(start))

	return res
}

// Similar returns the n records closest to the record with identifier id
func (s *Snapshot) Similar(id, n int) []recommend.Recommendation {
	return recommend.Similar(s.Corpus, s.Similarity, id, n, s.ranking)
}

// TopRated returns the n highest rated records
func (s *Snapshot) TopRated(n int) []recommend.Recommendation {
	return recommend.TopRated(s.Corpus, n, s.ranking)
}

// Record looks up a record by identifier
func (s *Snapshot) Record(id int) (catalog.Record, bool) {
	idx := s.Corpus.IndexOf(id)
	if idx < 0 {
		return catalog.Record{}, false
	}
	return s.Corpus[idx], true
}

// Stats summarizes the snapshot's corpus
func (s *Snapshot) Stats() stats.Stats {
	return stats.Summarize(s.Corpus)
}

// Categories lists categories with record counts
func (s *Snapshot) Categories() []stats.Count {
	return stats.Categories(s.Corpus)
}

// Languages lists programming languages with record counts
func (s *Snapshot) Languages() []stats.Count {
	return stats.Languages(s.Corpus)
}
