package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
	"github.com/custodia-labs/docfinder-cli/internal/core/ports/driven"
)

const testDimension = 4

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "index.db")
	store, err := NewStore(dbPath, testDimension)
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

// testDoc builds a document value for path with the given hash.
func testDoc(path, hash string) domain.Document {
	return domain.Document{
		Path:    path,
		Title:   "Test Document",
		Hash:    hash,
		ModTime: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Size:    4096,
	}
}

// testChunks builds n chunks with distinct embeddings.
func testChunks(n int) ([]domain.Chunk, [][]float32) {
	chunks := make([]domain.Chunk, n)
	embeddings := make([][]float32, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			Index: i,
			Text:  "chunk " + string(rune('a'+i)),
			Metadata: map[string]string{
				domain.MetaTitle:    "Test Document",
				domain.MetaPageSpan: "2",
			},
		}
		embeddings[i] = []float32{float32(i), 1, 0, 0}
	}
	return chunks, embeddings
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "index.db")
	store, err := NewStore(dbPath, testDimension)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, dbPath, store.Path())
	assert.Equal(t, testDimension, store.Dimensions())
	assert.FileExists(t, dbPath)
}

func TestNewStore_InvalidDimension(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "index.db"), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")

	store, err := NewStore(dbPath, testDimension)
	require.NoError(t, err)

	chunks, embeddings := testChunks(2)
	_, err = store.UpsertDocument(context.Background(), testDoc("/tmp/a.pdf", "h1"), chunks, embeddings)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Schema setup must be idempotent on an existing database.
	store, err = NewStore(dbPath, testDimension)
	require.NoError(t, err)
	defer store.Close()

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 2, stats.Chunks)
}

func TestNewStore_MigratesLegacySchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "legacy.db")

	// Simulate a database written before embeddings were stored inline.
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE documents (
			id INTEGER PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			title TEXT,
			hash TEXT NOT NULL,
			mtime REAL NOT NULL,
			size INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE chunks (
			id INTEGER PRIMARY KEY,
			document_id INTEGER NOT NULL,
			chunk_index INTEGER NOT NULL,
			text TEXT NOT NULL,
			metadata TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(document_id) REFERENCES documents(id) ON DELETE CASCADE
		);
		CREATE TABLE chunk_index (id INTEGER PRIMARY KEY);
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err := NewStore(dbPath, testDimension)
	require.NoError(t, err)
	defer store.Close()

	// The embedding column now exists and inserts succeed.
	chunks, embeddings := testChunks(1)
	status, err := store.UpsertDocument(context.Background(), testDoc("/tmp/a.pdf", "h1"), chunks, embeddings)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInserted, status)

	// Legacy auxiliary tables are gone.
	var count int
	err = store.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'chunk_index'",
	).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

// ==================== Upsert ====================

func TestUpsertDocument_Insert(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	chunks, embeddings := testChunks(3)
	status, err := store.UpsertDocument(ctx, testDoc("/tmp/a.pdf", "h1"), chunks, embeddings)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInserted, status)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 3, stats.Chunks)
}

func TestUpsertDocument_SkipsUnchangedHash(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	chunks, embeddings := testChunks(3)
	_, err := store.UpsertDocument(ctx, testDoc("/tmp/a.pdf", "h1"), chunks, embeddings)
	require.NoError(t, err)

	status, err := store.UpsertDocument(ctx, testDoc("/tmp/a.pdf", "h1"), chunks, embeddings)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSkipped, status)

	// Counts unchanged: no duplicate rows were written.
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 3, stats.Chunks)
}

func TestUpsertDocument_ReplacesOnChangedHash(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	oldChunks, oldEmbeddings := testChunks(3)
	oldChunks[0].Text = "obsolete text"
	_, err := store.UpsertDocument(ctx, testDoc("/tmp/a.pdf", "h1"), oldChunks, oldEmbeddings)
	require.NoError(t, err)

	newChunks, newEmbeddings := testChunks(2)
	status, err := store.UpsertDocument(ctx, testDoc("/tmp/a.pdf", "h2"), newChunks, newEmbeddings)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUpdated, status)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 2, stats.Chunks)

	// The replaced chunk set is gone.
	var count int
	err = store.db.QueryRow(
		"SELECT COUNT(*) FROM chunks WHERE text = 'obsolete text'",
	).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInsertChunks_EmbeddingCountMismatch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	chunks, embeddings := testChunks(3)
	_, err := store.UpsertDocument(ctx, testDoc("/tmp/a.pdf", "h1"), chunks, embeddings[:2])
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingMismatch)

	// The failed transaction rolled back: nothing was persisted.
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Documents)
	assert.Zero(t, stats.Chunks)
}

func TestInsertChunks_DimensionMismatch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	chunks, embeddings := testChunks(2)
	embeddings[1] = []float32{1, 2} // wrong dimension

	_, err := store.UpsertDocument(ctx, testDoc("/tmp/a.pdf", "h1"), chunks, embeddings)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Documents)
}

func TestWithTx_BatchedInserts(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	chunks, embeddings := testChunks(4)

	err := store.WithTx(ctx, func(tx driven.DocumentTx) error {
		id, status, err := tx.InitDocument(testDoc("/tmp/a.pdf", "h1"))
		require.NoError(t, err)
		require.Equal(t, domain.StatusInserted, status)

		// Two batches within the same transaction.
		if err := tx.InsertChunks(id, chunks[:2], embeddings[:2]); err != nil {
			return err
		}
		return tx.InsertChunks(id, chunks[2:], embeddings[2:])
	})
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Chunks)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	chunks, embeddings := testChunks(2)

	err := store.WithTx(ctx, func(tx driven.DocumentTx) error {
		id, _, err := tx.InitDocument(testDoc("/tmp/a.pdf", "h1"))
		require.NoError(t, err)
		require.NoError(t, tx.InsertChunks(id, chunks, embeddings))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	// Everything inside the failed scope rolled back.
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Documents)
	assert.Zero(t, stats.Chunks)
}

// ==================== Delete / prune ====================

func TestDeleteDocument_Cascades(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	chunks, embeddings := testChunks(3)
	_, err := store.UpsertDocument(ctx, testDoc("/tmp/a.pdf", "h1"), chunks, embeddings)
	require.NoError(t, err)

	require.NoError(t, store.DeleteDocument(ctx, "/tmp/a.pdf"))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Documents)
	assert.Zero(t, stats.Chunks)
}

func TestDeleteDocument_NotFound(t *testing.T) {
	store := setupTestStore(t)

	err := store.DeleteDocument(context.Background(), "/tmp/absent.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveMissingFiles(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	dir := t.TempDir()
	keep := filepath.Join(dir, "keep.pdf")
	gone := filepath.Join(dir, "gone.pdf")
	require.NoError(t, os.WriteFile(keep, []byte("keep"), 0600))

	chunks, embeddings := testChunks(2)
	_, err := store.UpsertDocument(ctx, testDoc(keep, "h1"), chunks, embeddings)
	require.NoError(t, err)
	_, err = store.UpsertDocument(ctx, testDoc(gone, "h2"), chunks, embeddings)
	require.NoError(t, err)

	removed, err := store.RemoveMissingFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 2, stats.Chunks)

	// The surviving document is the one still on disk.
	err = store.DeleteDocument(ctx, gone)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, store.DeleteDocument(ctx, keep))
}

func TestRemoveMissingFiles_EmptyStore(t *testing.T) {
	store := setupTestStore(t)

	removed, err := store.RemoveMissingFiles(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

// ==================== Search ====================

func TestSearch_RanksByDotProduct(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	chunks := []domain.Chunk{
		{Index: 0, Text: "low", Metadata: map[string]string{domain.MetaTitle: "T"}},
		{Index: 1, Text: "high", Metadata: map[string]string{domain.MetaTitle: "T"}},
		{Index: 2, Text: "mid", Metadata: map[string]string{domain.MetaTitle: "T"}},
	}
	embeddings := [][]float32{
		{0.1, 0, 0, 0},
		{0.9, 0, 0, 0},
		{0.5, 0, 0, 0},
	}
	_, err := store.UpsertDocument(ctx, testDoc("/tmp/a.pdf", "h1"), chunks, embeddings)
	require.NoError(t, err)

	query := []float32{1, 0, 0, 0}

	t.Run("k smaller than corpus", func(t *testing.T) {
		matches, err := store.Search(ctx, query, 2)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "high", matches[0].Text)
		assert.Equal(t, "mid", matches[1].Text)
		assert.Greater(t, matches[0].Score, matches[1].Score)
	})

	t.Run("k at least corpus size", func(t *testing.T) {
		matches, err := store.Search(ctx, query, 10)
		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, []string{"high", "mid", "low"},
			[]string{matches[0].Text, matches[1].Text, matches[2].Text})
	})
}

func TestSearch_EmptyStore(t *testing.T) {
	store := setupTestStore(t)

	matches, err := store.Search(context.Background(), []float32{1, 0, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Search(context.Background(), []float32{1, 0}, 5)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearch_InvalidTopK(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Search(context.Background(), []float32{1, 0, 0, 0}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearch_ReturnsRowFields(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	chunks, embeddings := testChunks(1)
	_, err := store.UpsertDocument(ctx, testDoc("/tmp/a.pdf", "h1"), chunks, embeddings)
	require.NoError(t, err)

	matches, err := store.Search(ctx, []float32{0, 1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "/tmp/a.pdf", m.Path)
	assert.Equal(t, "Test Document", m.Title)
	assert.Equal(t, 0, m.ChunkIndex)
	assert.Equal(t, "chunk a", m.Text)
	assert.InDelta(t, 1.0, m.Score, 1e-9)

	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(m.Metadata), &meta))
	assert.Equal(t, "2", meta[domain.MetaPageSpan])
}

// ==================== Embedding codec ====================

func TestFloat32BytesRoundTrip(t *testing.T) {
	in := []float32{0.5, -1.25, 3.75, 0}
	out := bytesToFloat32Slice(float32SliceToBytes(in))
	assert.Equal(t, in, out)
}

func TestFloat32SliceToBytes_LittleEndianLayout(t *testing.T) {
	// 1.0 as little-endian float32 is 00 00 80 3f.
	buf := float32SliceToBytes([]float32{1.0})
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, buf)
}

func TestFloat32SliceToBytes_Empty(t *testing.T) {
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
