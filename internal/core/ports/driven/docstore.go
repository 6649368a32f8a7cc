package driven

import (
	"context"

	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
)

// DocumentStore persists documents, chunks, and their embeddings.
// Backed by SQLite. A single store instance owns its database file;
// writes go through one transaction at a time.
type DocumentStore interface {
	// WithTx runs fn inside a write transaction. The transaction commits
	// when fn returns nil and rolls back when fn returns an error, in which
	// case the error is returned unchanged. Transactions do not nest.
	WithTx(ctx context.Context, fn func(tx DocumentTx) error) error

	// UpsertDocument inserts or replaces a document and its chunks in one
	// transaction. Composition of InitDocument and InsertChunks.
	UpsertDocument(
		ctx context.Context,
		doc domain.Document,
		chunks []domain.Chunk,
		embeddings [][]float32,
	) (domain.IndexStatus, error)

	// Search scans every stored chunk embedding, scores it against the
	// query vector by dot product, and returns the topK highest-scoring
	// chunks in descending score order.
	Search(ctx context.Context, query []float32, topK int) ([]domain.ChunkMatch, error)

	// RemoveMissingFiles deletes documents whose backing files no longer
	// exist on disk, cascading to their chunks. Returns the count removed.
	RemoveMissingFiles(ctx context.Context) (int, error)

	// DeleteDocument removes the document at path and its chunks.
	// Returns domain.ErrNotFound if no document has that path.
	DeleteDocument(ctx context.Context, path string) error

	// Stats returns document and chunk counts.
	Stats(ctx context.Context) (domain.StoreStats, error)

	// Dimensions returns the configured embedding dimension.
	Dimensions() int

	// Close closes the database connection.
	Close() error
}

// DocumentTx is the set of mutations available inside a write transaction.
type DocumentTx interface {
	// InitDocument prepares a document row for chunk insertion.
	// If a row with the same path and hash exists the document is unchanged:
	// the existing id and StatusSkipped are returned and no chunks should be
	// inserted. If the hash differs, the old row and its chunks are deleted
	// and a fresh row inserted (StatusUpdated). Otherwise a fresh row is
	// inserted (StatusInserted).
	InitDocument(doc domain.Document) (int64, domain.IndexStatus, error)

	// InsertChunks appends chunk rows for docID. The number of embeddings
	// must equal the number of chunks and every vector must match the
	// store's dimension. May be called repeatedly to insert in batches.
	InsertChunks(docID int64, chunks []domain.Chunk, embeddings [][]float32) error
}
