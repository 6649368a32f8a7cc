// Package hash provides a deterministic local embedding service based on
// feature hashing. It needs no model or network access, which makes it the
// offline default and the provider of choice for tests: identical input
// always produces identical vectors.
//
// The vectors are crude compared to a learned model, but they preserve
// lexical similarity: texts sharing words share vector mass.
package hash

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/custodia-labs/docfinder-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the default vector size.
const DefaultDimensions = 256

// EmbeddingService hashes word tokens into a fixed-size vector.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a feature-hashing embedder. A non-positive
// dimensions falls back to DefaultDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed generates one embedding per input text.
func (s *EmbeddingService) Embed(_ context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = s.vectorise(text)
	}
	return embeddings, nil
}

// EmbedQuery generates an embedding for a single query string.
func (s *EmbeddingService) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return s.vectorise(text), nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return "feature-hash"
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// vectorise hashes each lower-cased word token into a bucket, using one
// hash bit for the sign, then L2-normalises so dot products behave like
// cosine similarity.
func (s *EmbeddingService) vectorise(text string) []float32 {
	vec := make([]float32, s.dimensions)

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	for _, token := range tokens {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		bucket := int(sum % uint64(s.dimensions)) //nolint:gosec // bounded by dimensions
		sign := float32(1)
		if sum&(1<<63) != 0 {
			sign = -1
		}
		vec[bucket] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}

	return vec
}
