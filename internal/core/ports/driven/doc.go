// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - DocumentStore: transactional persistence for documents, chunks, and
//     their embeddings, plus exhaustive similarity search
//   - EmbeddingService: maps text to fixed-dimension float32 vectors
//   - TextExtractor: yields page-ordered text fragments from a file
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
