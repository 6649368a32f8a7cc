package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingMismatch indicates the number of embedding vectors passed
	// to a store call does not equal the number of chunks.
	ErrEmbeddingMismatch = errors.New("embeddings and chunks length mismatch")

	// ErrDimensionMismatch indicates a vector's length does not equal the
	// store's configured embedding dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrExtractionFailed indicates a document could not be opened or parsed.
	// The indexing pipeline records the document as failed and continues.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrUnsupportedType indicates no extractor handles the file type.
	ErrUnsupportedType = errors.New("unsupported file type")
)
