package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docfinder-cli/internal/chunker"
	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
	"github.com/custodia-labs/docfinder-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docfinder-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docfinder-cli/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.Indexer = (*IndexerService)(nil)

// DefaultBatchSize is the number of chunks embedded and inserted per batch.
const DefaultBatchSize = 32

// IndexerService coordinates document discovery, extraction, chunking,
// embedding, and persistence.
type IndexerService struct {
	store     driven.DocumentStore
	embedder  driven.EmbeddingService
	registry  driven.ExtractorRegistry
	resolver  driven.PathResolver
	splitter  *chunker.Splitter
	batchSize int
}

// IndexerOption configures an IndexerService.
type IndexerOption func(*IndexerService)

// WithSplitter overrides the default chunk splitter.
func WithSplitter(s *chunker.Splitter) IndexerOption {
	return func(svc *IndexerService) {
		if s != nil {
			svc.splitter = s
		}
	}
}

// WithBatchSize sets how many chunks are embedded and inserted at a time.
func WithBatchSize(n int) IndexerOption {
	return func(svc *IndexerService) {
		if n > 0 {
			svc.batchSize = n
		}
	}
}

// NewIndexerService creates a new indexer service.
func NewIndexerService(
	store driven.DocumentStore,
	embedder driven.EmbeddingService,
	registry driven.ExtractorRegistry,
	resolver driven.PathResolver,
	opts ...IndexerOption,
) *IndexerService {
	svc := &IndexerService{
		store:     store,
		embedder:  embedder,
		registry:  registry,
		resolver:  resolver,
		splitter:  chunker.New(),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Index discovers documents under the given paths and ingests each one.
// A document that fails is logged and counted; the run continues.
func (s *IndexerService) Index(ctx context.Context, paths []string) (*domain.IndexStats, error) {
	files, err := s.resolver.Resolve(paths)
	if err != nil {
		return nil, fmt.Errorf("resolving paths: %w", err)
	}

	stats := &domain.IndexStats{RunID: uuid.NewString()}

	if len(files) == 0 {
		logger.Warn("No documents found under %v", paths)
		return stats, nil
	}

	logger.Info("Indexing run %s: %d document(s)", stats.RunID, len(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		logger.Info("Processing: %s", path)
		status, err := s.indexOne(ctx, path)
		if err != nil {
			logger.Error("Failed to process %s: %v", path, err)
			stats.Record(domain.StatusFailed, path)
			continue
		}
		stats.Record(status, path)
	}

	logger.Info("Run %s done: %d inserted, %d updated, %d skipped, %d failed",
		stats.RunID, stats.Inserted, stats.Updated, stats.Skipped, stats.Failed)

	return stats, nil
}

// indexOne ingests a single document file.
func (s *IndexerService) indexOne(ctx context.Context, path string) (domain.IndexStatus, error) {
	extractor, err := s.registry.ForPath(path)
	if err != nil {
		return domain.StatusFailed, err
	}

	info, err := extractor.Metadata(ctx, path)
	if err != nil {
		return domain.StatusFailed, fmt.Errorf("reading metadata: %w", err)
	}

	title := info.Title
	if title == "" {
		title = fileStem(path)
	}

	pages, err := extractor.Pages(ctx, path)
	if err != nil {
		return domain.StatusFailed, fmt.Errorf("opening document: %w", err)
	}
	defer pages.Close()

	meta := map[string]string{
		domain.MetaTitle:    title,
		domain.MetaPageSpan: strconv.Itoa(info.PageCount),
	}
	stream := s.splitter.Split(chunker.Source(pages.Next), meta)

	// Peek the first chunk before touching the store: a document with no
	// extractable text is skipped, not inserted empty.
	first, ok := stream.Next()
	if !ok {
		if err := pages.Err(); err != nil {
			return domain.StatusFailed, fmt.Errorf("reading pages: %w", err)
		}
		logger.Warn("No text extracted from %s", path)
		return domain.StatusSkipped, nil
	}

	hash, err := hashFile(path)
	if err != nil {
		return domain.StatusFailed, fmt.Errorf("hashing file: %w", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return domain.StatusFailed, fmt.Errorf("stat file: %w", err)
	}

	doc := domain.Document{
		Path:    path,
		Title:   title,
		Hash:    hash,
		ModTime: fi.ModTime(),
		Size:    fi.Size(),
	}

	var status domain.IndexStatus
	err = s.store.WithTx(ctx, func(tx driven.DocumentTx) error {
		docID, st, err := tx.InitDocument(doc)
		if err != nil {
			return err
		}
		status = st
		if status == domain.StatusSkipped {
			return nil
		}

		batch := []domain.Chunk{first}
		flush := func() error {
			embeddings, err := s.embedder.Embed(ctx, chunkTexts(batch))
			if err != nil {
				return fmt.Errorf("embedding chunks: %w", err)
			}
			if err := tx.InsertChunks(docID, batch, embeddings); err != nil {
				return err
			}
			batch = batch[:0]
			return nil
		}

		for {
			chunk, ok := stream.Next()
			if !ok {
				break
			}
			batch = append(batch, chunk)
			if len(batch) >= s.batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if err := pages.Err(); err != nil {
			return fmt.Errorf("reading pages: %w", err)
		}
		if len(batch) > 0 {
			return flush()
		}
		return nil
	})
	if err != nil {
		return domain.StatusFailed, err
	}

	return status, nil
}

// Prune removes stored documents whose backing files no longer exist.
func (s *IndexerService) Prune(ctx context.Context) (int, error) {
	removed, err := s.store.RemoveMissingFiles(ctx)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.Info("Pruned %d missing document(s)", removed)
	}
	return removed, nil
}

// Remove deletes the document at path from the store.
func (s *IndexerService) Remove(ctx context.Context, path string) error {
	return s.store.DeleteDocument(ctx, path)
}

// Stats reports document and chunk counts.
func (s *IndexerService) Stats(ctx context.Context) (domain.StoreStats, error) {
	return s.store.Stats(ctx)
}

func chunkTexts(chunks []domain.Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}

// fileStem returns the file name without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// hashFile computes the hex-encoded SHA-256 of the file contents.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
