package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/recommender/internal/recommend"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Catalog != "programming_books_dataset.csv" || cfg.Addr != ":8888" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
	if cfg.Engine.Ranking.NeighborWindow != recommend.DefaultNeighborWindow {
		t.Errorf("Expected default neighbor window, got %d", cfg.Engine.Ranking.NeighborWindow)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recommender.yaml")
	content := `catalog: /data/books.parquet
addr: ":9000"
engine:
  features:
    max_features: 500
  ranking:
    fuzzy_threshold: 80
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Catalog != "/data/books.parquet" || cfg.Addr != ":9000" {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if cfg.Engine.Features.MaxFeatures != 500 || cfg.Engine.Ranking.FuzzyThreshold != 80 {
		t.Errorf("Expected overrides to apply, got %+v", cfg.Engine)
	}
	// unset keys keep their defaults
	if cfg.Engine.Features.MaxN != 2 || cfg.Engine.Ranking.NeighborWindow != recommend.DefaultNeighborWindow {
		t.Errorf("Expected defaults for unset keys, got %+v", cfg.Engine)
	}
	if cfg.ShelfDB != "my_library.db" {
		t.Errorf("Expected default shelf db, got %s", cfg.ShelfDB)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing explicit config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("catalog: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed config")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RECOMMENDER_CATALOG", "env.csv")
	t.Setenv("RECOMMENDER_SHELF_DB", "env.db")
	t.Setenv("RECOMMENDER_ADDR", ":7000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Catalog != "env.csv" || cfg.ShelfDB != "env.db" || cfg.Addr != ":7000" {
		t.Errorf("Expected environment overrides, got %+v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", cfg.SlogLevel())
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for level, expected := range tests {
		if got := (Config{LogLevel: level}).SlogLevel(); got != expected {
			t.Errorf("SlogLevel(%q) = %v, expected %v", level, got, expected)
		}
	}
}
