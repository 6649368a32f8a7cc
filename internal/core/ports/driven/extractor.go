package driven

import (
	"context"

	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
)

// TextExtractor produces page-ordered text from a document file.
// Each file format (PDF, office, plaintext) has its own implementation.
//
// An extractor must tolerate unreadable individual pages: it logs and skips
// them, failing the document only when the file cannot be opened at all.
type TextExtractor interface {
	// Extensions returns the lower-case file extensions this extractor
	// handles, including the leading dot (".pdf").
	Extensions() []string

	// Metadata returns document-level metadata without reading page text.
	Metadata(ctx context.Context, path string) (domain.DocumentInfo, error)

	// Pages opens the file and returns a reader over its text fragments,
	// one per page, in page order. The caller must Close the reader.
	Pages(ctx context.Context, path string) (PageReader, error)
}

// PageReader is a pull-based iterator over extracted text fragments.
// It buffers at most one page at a time.
type PageReader interface {
	// Next returns the next fragment. ok is false when the sequence is
	// exhausted.
	Next() (text string, ok bool)

	// Err returns the first error encountered while reading, if any.
	Err() error

	// Close releases the underlying file.
	Close() error
}
