package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
	"github.com/custodia-labs/docfinder-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docfinder-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docfinder-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers natural-language queries against the index.
type SearchService struct {
	store    driven.DocumentStore
	embedder driven.EmbeddingService
}

// NewSearchService creates a new search service.
func NewSearchService(store driven.DocumentStore, embedder driven.EmbeddingService) *SearchService {
	return &SearchService{
		store:    store,
		embedder: embedder,
	}
}

// Search embeds the query and returns the topK best-matching chunks in
// descending score order. A non-positive topK falls back to
// domain.DefaultTopK.
func (s *SearchService) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	logger.Section("Search Execution")
	logger.Debug("Query: %q (top %d)", query, topK)

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := s.store.Search(ctx, embedding, topK)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(matches))
	for _, m := range matches {
		metadata := map[string]string{}
		if m.Metadata != "" {
			if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
				logger.Warn("Malformed chunk metadata for %s#%d: %v", m.Path, m.ChunkIndex, err)
				metadata = map[string]string{}
			}
			if metadata == nil {
				metadata = map[string]string{}
			}
		}

		results = append(results, domain.SearchResult{
			Path:       m.Path,
			Title:      m.Title,
			ChunkIndex: m.ChunkIndex,
			Score:      m.Score,
			Text:       m.Text,
			Metadata:   metadata,
		})
	}

	logger.Debug("Search returned %d result(s)", len(results))
	return results, nil
}
