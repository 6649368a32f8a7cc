package driving

import (
	"context"

	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
)

// Indexer drives document ingestion end to end.
type Indexer interface {
	// Index discovers documents under the given paths and ingests each one.
	// A failing document is counted and logged; processing continues with
	// the remaining documents. The returned stats list every processed
	// path, including failures.
	Index(ctx context.Context, paths []string) (*domain.IndexStats, error)

	// Prune removes stored documents whose backing files no longer exist.
	Prune(ctx context.Context) (int, error)

	// Remove deletes the document at path from the store.
	Remove(ctx context.Context, path string) error

	// Stats reports document and chunk counts.
	Stats(ctx context.Context) (domain.StoreStats, error)
}
