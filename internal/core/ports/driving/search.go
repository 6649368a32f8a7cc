package driving

import (
	"context"

	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
)

// SearchService provides similarity search to external actors.
type SearchService interface {
	// Search embeds the query text and returns the topK highest-scoring
	// chunks in descending score order. A topK of zero or less uses
	// domain.DefaultTopK. Empty query text is rejected with
	// domain.ErrInvalidInput.
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}
