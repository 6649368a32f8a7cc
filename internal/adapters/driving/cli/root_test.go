package cli

import (
	"bytes"
	"context"

	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
)

// mockIndexer is a scriptable driving.Indexer for command tests.
type mockIndexer struct {
	indexStats *domain.IndexStats
	indexErr   error
	pruned     int
	pruneErr   error
	removeErr  error
	storeStats domain.StoreStats

	indexedPaths []string
	removedPaths []string
}

func (m *mockIndexer) Index(_ context.Context, paths []string) (*domain.IndexStats, error) {
	m.indexedPaths = append(m.indexedPaths, paths...)
	if m.indexErr != nil {
		return nil, m.indexErr
	}
	if m.indexStats != nil {
		return m.indexStats, nil
	}
	return &domain.IndexStats{}, nil
}

func (m *mockIndexer) Prune(_ context.Context) (int, error) {
	return m.pruned, m.pruneErr
}

func (m *mockIndexer) Remove(_ context.Context, path string) error {
	m.removedPaths = append(m.removedPaths, path)
	return m.removeErr
}

func (m *mockIndexer) Stats(_ context.Context) (domain.StoreStats, error) {
	return m.storeStats, nil
}

// mockSearcher is a scriptable driving.SearchService for command tests.
type mockSearcher struct {
	results []domain.SearchResult
	err     error

	lastQuery string
	lastTopK  int
}

func (m *mockSearcher) Search(_ context.Context, query string, topK int) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastTopK = topK
	return m.results, m.err
}

// setupTestServices swaps in fresh mocks and returns them with a cleanup.
func setupTestServices() (*mockIndexer, *mockSearcher, func()) {
	oldIndexer, oldSearcher := indexerService, searchService

	indexer := &mockIndexer{}
	searcher := &mockSearcher{}
	SetServices(indexer, searcher)

	return indexer, searcher, func() {
		indexerService, searchService = oldIndexer, oldSearcher
	}
}

// execute runs the root command with args and captures its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
