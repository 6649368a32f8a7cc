package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docfinder-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
	"github.com/custodia-labs/docfinder-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a SQLite-backed document and chunk store.
// One Store instance exclusively owns its database file; concurrent
// writers from other processes rely on SQLite's own WAL locking.
type Store struct {
	db        *sql.DB
	path      string
	dimension int
}

// NewStore opens (creating if absent) the database at dbPath and ensures
// the schema exists. dimension is the embedding vector size every stored
// chunk must match. Safe to call on an already-initialised database,
// including one with a legacy schema lacking the embedding column.
func NewStore(dbPath string, dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", domain.ErrInvalidInput, dimension)
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// WAL for durability with concurrent readers, synchronous=NORMAL trades
	// maximum durability for write throughput.
	dsn := dbPath + "?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Single-writer model: one connection serialises all access.
	db.SetMaxOpenConns(1)

	s := &Store{
		db:        db,
		path:      dbPath,
		dimension: dimension,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := s.migrateLegacy(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating legacy schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Dimensions returns the configured embedding dimension.
func (s *Store) Dimensions() int {
	return s.dimension
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// migrateLegacy upgrades database files written by earlier tool versions:
// chunks tables without an embedding column gain one, and abandoned
// auxiliary vector tables are dropped.
func (s *Store) migrateLegacy() error {
	for _, table := range []string{"chunk_index", "chunk_index_data", "chunk_index_index"} {
		if _, err := s.db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return fmt.Errorf("dropping legacy table %s: %w", table, err)
		}
	}

	rows, err := s.db.Query("PRAGMA table_info(chunks)")
	if err != nil {
		return fmt.Errorf("reading chunks schema: %w", err)
	}
	defer rows.Close()

	hasEmbedding := false
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scanning column info: %w", err)
		}
		if name == "embedding" {
			hasEmbedding = true
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating column info: %w", err)
	}

	if !hasEmbedding {
		if _, err := s.db.Exec("ALTER TABLE chunks ADD COLUMN embedding BLOB"); err != nil {
			return fmt.Errorf("adding embedding column: %w", err)
		}
	}

	return nil
}

// ==================== Transactions ====================

// documentTx implements driven.DocumentTx over an open write transaction.
type documentTx struct {
	ctx       context.Context
	tx        *sql.Tx
	dimension int
}

var _ driven.DocumentTx = (*documentTx)(nil)

// WithTx runs fn inside a write transaction, committing on nil and rolling
// back on error. Not reentrant.
func (s *Store) WithTx(ctx context.Context, fn func(tx driven.DocumentTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(&documentTx{ctx: ctx, tx: tx, dimension: s.dimension}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// InitDocument prepares a document row for chunk insertion, replacing any
// existing row whose hash differs. Returns the row id and the outcome.
func (t *documentTx) InitDocument(doc domain.Document) (int64, domain.IndexStatus, error) {
	var (
		existingID   int64
		existingHash string
	)
	err := t.tx.QueryRowContext(t.ctx,
		"SELECT id, hash FROM documents WHERE path = ?", doc.Path,
	).Scan(&existingID, &existingHash)

	exists := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, domain.StatusFailed, fmt.Errorf("looking up document: %w", err)
	}

	if exists && existingHash == doc.Hash {
		return existingID, domain.StatusSkipped, nil
	}

	if exists {
		// Replace wholesale; chunk rows cascade.
		if _, err := t.tx.ExecContext(t.ctx,
			"DELETE FROM documents WHERE id = ?", existingID,
		); err != nil {
			return 0, domain.StatusFailed, fmt.Errorf("deleting stale document: %w", err)
		}
	}

	res, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO documents (path, title, hash, mtime, size)
		VALUES (?, ?, ?, ?, ?)
	`, doc.Path, doc.Title, doc.Hash, mtimeSeconds(doc.ModTime), doc.Size)
	if err != nil {
		return 0, domain.StatusFailed, fmt.Errorf("inserting document: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.StatusFailed, fmt.Errorf("reading document id: %w", err)
	}

	if exists {
		return id, domain.StatusUpdated, nil
	}
	return id, domain.StatusInserted, nil
}

// InsertChunks appends chunk rows for docID within the transaction.
func (t *documentTx) InsertChunks(docID int64, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks, %d embeddings",
			domain.ErrEmbeddingMismatch, len(chunks), len(embeddings))
	}

	stmt, err := t.tx.PrepareContext(t.ctx, `
		INSERT INTO chunks (document_id, chunk_index, text, metadata, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		if len(embeddings[i]) != t.dimension {
			return fmt.Errorf("%w: chunk %d has dimension %d, store expects %d",
				domain.ErrDimensionMismatch, chunk.Index, len(embeddings[i]), t.dimension)
		}

		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		if _, err := stmt.ExecContext(t.ctx, docID, chunk.Index, chunk.Text,
			string(metadataJSON), float32SliceToBytes(embeddings[i])); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", chunk.Index, err)
		}
	}

	return nil
}

// UpsertDocument inserts or replaces a document and its chunks in a single
// transaction.
func (s *Store) UpsertDocument(
	ctx context.Context,
	doc domain.Document,
	chunks []domain.Chunk,
	embeddings [][]float32,
) (domain.IndexStatus, error) {
	var status domain.IndexStatus

	err := s.WithTx(ctx, func(tx driven.DocumentTx) error {
		id, st, err := tx.InitDocument(doc)
		if err != nil {
			return err
		}
		status = st
		if st == domain.StatusSkipped {
			return nil
		}
		return tx.InsertChunks(id, chunks, embeddings)
	})
	if err != nil {
		return domain.StatusFailed, err
	}
	return status, nil
}

// ==================== Search ====================

// Search scans all stored chunk embeddings and returns the topK
// highest-scoring chunks by dot product, descending.
func (s *Store) Search(ctx context.Context, query []float32, topK int) ([]domain.ChunkMatch, error) {
	if len(query) != s.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, store expects %d",
			domain.ErrDimensionMismatch, len(query), s.dimension)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", domain.ErrInvalidInput, topK)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			d.path,
			d.title,
			c.chunk_index,
			c.text,
			c.metadata,
			c.embedding
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var matches []domain.ChunkMatch //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			match    domain.ChunkMatch
			title    sql.NullString
			metadata sql.NullString
			blob     []byte
		)
		if err := rows.Scan(&match.Path, &title, &match.ChunkIndex,
			&match.Text, &metadata, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		match.Title = title.String
		match.Metadata = metadata.String

		embedding := bytesToFloat32Slice(blob)
		if len(embedding) != s.dimension {
			return nil, fmt.Errorf("%w: stored chunk has dimension %d, store expects %d",
				domain.ErrDimensionMismatch, len(embedding), s.dimension)
		}

		match.Score = dot(embedding, query)
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return selectTopK(matches, topK), nil
}

// ==================== Maintenance ====================

// RemoveMissingFiles deletes documents whose backing files no longer exist
// on disk, within a single transaction. Returns the count removed.
func (s *Store) RemoveMissingFiles(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, path FROM documents")
	if err != nil {
		return 0, fmt.Errorf("querying documents: %w", err)
	}

	var missing []int64
	for rows.Next() {
		var (
			id   int64
			path string
		)
		if err := rows.Scan(&id, &path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning document: %w", err)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			missing = append(missing, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterating documents: %w", err)
	}
	rows.Close()

	if len(missing) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, id := range missing {
		if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
			return 0, fmt.Errorf("deleting document %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return len(missing), nil
}

// DeleteDocument removes the document at path and its chunks.
func (s *Store) DeleteDocument(ctx context.Context, path string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats returns document and chunk counts.
func (s *Store) Stats(ctx context.Context) (domain.StoreStats, error) {
	var stats domain.StoreStats

	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents").Scan(&stats.Documents); err != nil {
		return stats, fmt.Errorf("counting documents: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks").Scan(&stats.Chunks); err != nil {
		return stats, fmt.Errorf("counting chunks: %w", err)
	}

	return stats, nil
}

// ==================== Helper Functions ====================

// mtimeSeconds stores modification times as REAL seconds since the epoch.
func mtimeSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// float32SliceToBytes converts a []float32 to little-endian bytes for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a stored byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// dot computes the dot product, accumulating in float64.
func dot(a []float32, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
