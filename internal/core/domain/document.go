package domain

import "time"

// Metadata keys attached to every chunk of a document.
const (
	// MetaTitle is the document title carried on each chunk.
	MetaTitle = "title"

	// MetaPageSpan is the page-count indicator carried on each chunk.
	MetaPageSpan = "page_span"
)

// Document describes an indexed file. The absolute path is the identity;
// the content hash is the sole change-detection key.
type Document struct {
	// ID is the store-assigned row identifier. Zero until persisted.
	ID int64

	// Path is the absolute file path. Unique per live document.
	Path string

	// Title is the human-readable title, defaulting to the file stem.
	Title string

	// Hash is the SHA-256 digest of the full file bytes, hex encoded.
	Hash string

	// ModTime is the file's last modification time.
	ModTime time.Time

	// Size is the file size in bytes.
	Size int64

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time

	// UpdatedAt is when the document row was last modified.
	UpdatedAt time.Time
}

// Chunk is a bounded-length slice of a document's extracted text.
// Chunks are transient values: the indexing pipeline produces them and the
// store consumes them within a single call.
type Chunk struct {
	// Index is the zero-based position within the document. Contiguous.
	Index int

	// Text is the chunk content.
	Text string

	// Metadata carries document-level context (title, page span),
	// identical for every chunk of one document.
	Metadata map[string]string
}

// DocumentInfo is document-level metadata reported by a text extractor.
type DocumentInfo struct {
	// Title from the file's own metadata, or empty when absent.
	Title string

	// PageCount is the number of pages (1 for single-fragment formats).
	PageCount int
}
