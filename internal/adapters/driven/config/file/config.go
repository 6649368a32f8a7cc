// Package file loads docfinder configuration from a TOML file.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docfinder-cli/internal/adapters/driven/embedding/hash"
	"github.com/custodia-labs/docfinder-cli/internal/chunker"
	"github.com/custodia-labs/docfinder-cli/internal/core/services"
)

// Embedding provider names accepted in the config file.
const (
	ProviderHash   = "hash"
	ProviderOllama = "ollama"
)

// Config is the top-level docfinder configuration.
type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Indexing  IndexingConfig  `toml:"indexing"`
}

// DatabaseConfig controls the SQLite index location.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ChunkingConfig controls how extracted text is split before embedding.
type ChunkingConfig struct {
	MaxChars int `toml:"max_chars"`
	Overlap  int `toml:"overlap"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider   string `toml:"provider"`
	Model      string `toml:"model"`
	BaseURL    string `toml:"base_url"`
	Dimensions int    `toml:"dimensions"`
}

// IndexingConfig controls the indexing pipeline.
type IndexingConfig struct {
	BatchSize int `toml:"batch_size"`
}

// Default returns a Config populated with default values. The database
// lives under ~/.docfinder/data/index.db.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	return Config{
		Database: DatabaseConfig{
			Path: filepath.Join(home, ".docfinder", "data", "index.db"),
		},
		Chunking: ChunkingConfig{
			MaxChars: chunker.DefaultMaxChars,
			Overlap:  chunker.DefaultOverlap,
		},
		Embedding: EmbeddingConfig{
			Provider:   ProviderHash,
			Dimensions: hash.DefaultDimensions,
		},
		Indexing: IndexingConfig{
			BatchSize: services.DefaultBatchSize,
		},
	}, nil
}

// DefaultPath returns the default config file location,
// ~/.docfinder/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".docfinder", "config.toml"), nil
}

// Load reads the config file at path, layered over Default. A missing file
// is not an error: defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Chunking.MaxChars <= 0 {
		return fmt.Errorf("chunking.max_chars must be positive, got %d", c.Chunking.MaxChars)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking.overlap must not be negative, got %d", c.Chunking.Overlap)
	}
	if c.Indexing.BatchSize <= 0 {
		return fmt.Errorf("indexing.batch_size must be positive, got %d", c.Indexing.BatchSize)
	}
	switch c.Embedding.Provider {
	case ProviderHash, ProviderOllama:
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	return nil
}
