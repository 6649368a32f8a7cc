// Command docfinder indexes local documents and answers semantic queries
// against them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/docfinder-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docfinder-cli/internal/adapters/driven/embedding/hash"
	"github.com/custodia-labs/docfinder-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/docfinder-cli/internal/adapters/driven/extraction"
	"github.com/custodia-labs/docfinder-cli/internal/adapters/driven/extraction/office"
	"github.com/custodia-labs/docfinder-cli/internal/adapters/driven/extraction/pdf"
	"github.com/custodia-labs/docfinder-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docfinder-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/docfinder-cli/internal/chunker"
	"github.com/custodia-labs/docfinder-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/docfinder-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docfinder-cli/internal/core/services"
	"github.com/custodia-labs/docfinder-cli/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := os.Getenv("DOCFINDER_CONFIG")
	if cfgPath == "" {
		var err error
		cfgPath, err = file.DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := file.Load(cfgPath)
	if err != nil {
		return err
	}

	embedder := buildEmbedder(cfg.Embedding)
	defer embedder.Close()

	store, err := sqlite.NewStore(cfg.Database.Path, embedder.Dimensions())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	registry := extraction.NewRegistry(pdf.New(), office.New())
	resolver := filesystem.NewResolver(registry.Extensions())
	splitter := chunker.New(
		chunker.WithMaxChars(cfg.Chunking.MaxChars),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)

	indexer := services.NewIndexerService(store, embedder, registry, resolver,
		services.WithSplitter(splitter),
		services.WithBatchSize(cfg.Indexing.BatchSize),
	)
	search := services.NewSearchService(store, embedder)

	cli.SetServices(indexer, search)
	cli.SetVersion(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.ExecuteContext(ctx)
}

func buildEmbedder(cfg file.EmbeddingConfig) driven.EmbeddingService {
	switch cfg.Provider {
	case file.ProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Timeout:    30 * time.Second,
			Dimensions: cfg.Dimensions,
		})
	default:
		return hash.NewEmbeddingService(cfg.Dimensions)
	}
}
