package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations must produce the same output for the same input (modulo
// floating-point rounding) and a stable dimension for the lifetime of the
// service; the store's configured dimension must match Dimensions().
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local deterministic feature hashing (offline default)
type EmbeddingService interface {
	// Embed generates one embedding per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 256, 384, 768).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
