// Package domain defines the core business entities for DocFinder.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: metadata for an indexed file
//   - Chunk: a searchable slice of a document's text
//   - SearchResult: a ranked hit returned by the search path
//   - IndexStats: the aggregate outcome of an indexing run
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
