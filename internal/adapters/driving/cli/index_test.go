package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
)

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index [paths...]", indexCmd.Use)
}

func TestIndexCmd_RequiresAtLeastOnePath(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("index")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestIndexCmd_ReportsStats(t *testing.T) {
	indexer, _, cleanup := setupTestServices()
	defer cleanup()
	indexer.indexStats = &domain.IndexStats{
		Inserted:  2,
		Updated:   1,
		Skipped:   3,
		Processed: []string{"a", "b", "c", "d", "e", "f"},
	}

	out, err := execute("index", "/docs")

	require.NoError(t, err)
	assert.Contains(t, out, "Inserted: 2, updated: 1, skipped: 3, failed: 0")
	assert.Equal(t, []string{"/docs"}, indexer.indexedPaths)
}

func TestIndexCmd_NoDocumentsFound(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("index", "/empty")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents found.")
}

func TestIndexCmd_FailuresReturnError(t *testing.T) {
	indexer, _, cleanup := setupTestServices()
	defer cleanup()
	indexer.indexStats = &domain.IndexStats{
		Inserted:  1,
		Failed:    2,
		Processed: []string{"a", "b", "c"},
	}

	_, err := execute("index", "/docs")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 document(s) failed")
}

func TestIndexCmd_ServiceError(t *testing.T) {
	indexer, _, cleanup := setupTestServices()
	defer cleanup()
	indexer.indexErr = assert.AnError

	_, err := execute("index", "/docs")

	assert.Error(t, err)
}

func TestIndexCmd_ServiceNotConfigured(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	indexerService = nil

	_, err := execute("index", "/docs")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
