package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "corpora.yaml"

// Config is the CLI configuration file.
type Config struct {
	// Dataset is the SQLite file path.
	Dataset string `yaml:"dataset"`

	// Glob selects files for the ingest command.
	Glob string `yaml:"glob"`

	// HybridAlpha enables hybrid search when positive: the lexical weight
	// in [0, 1].
	HybridAlpha float64 `yaml:"hybrid_alpha"`

	// EmbeddingDimensions is the hashing embedder width; 0 selects the
	// default.
	EmbeddingDimensions int `yaml:"embedding_dimensions"`
}

// loadConfig reads the config file. A missing file at the default path yields
// defaults; an explicitly given path must exist.
func loadConfig(path string) (Config, error) {
	cfg := Config{
		Dataset: "corpora.db",
		Glob:    "**/*.md",
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
