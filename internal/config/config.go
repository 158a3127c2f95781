package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/recommender/internal/engine"
)

// DefaultPath is read when no --config flag is given, if it exists
const DefaultPath = "recommender.yaml"

// Config is the full application configuration
type Config struct {
	Catalog  string          `yaml:"catalog"`
	ShelfDB  string          `yaml:"shelf_db"`
	Addr     string          `yaml:"addr"`
	LogLevel string          `yaml:"log_level"`
	Engine   engine.Settings `yaml:"engine"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Catalog:  "programming_books_dataset.csv",
		ShelfDB:  "my_library.db",
		Addr:     ":8888",
		LogLevel: "info",
		Engine:   engine.DefaultSettings(),
	}
}

// Load reads path over the defaults and then applies environment overrides.
// A missing file at DefaultPath is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		slog.Debug("Loaded config file", "path", path)
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("RECOMMENDER_CATALOG"); v != "" {
		c.Catalog = v
	}
	if v := os.Getenv("RECOMMENDER_SHELF_DB"); v != "" {
		c.ShelfDB = v
	}
	if v := os.Getenv("RECOMMENDER_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
