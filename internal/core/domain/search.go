package domain

// DefaultTopK is the number of results returned when the caller does not
// specify a limit.
const DefaultTopK = 10

// SearchResult is a ranked hit from a similarity search.
type SearchResult struct {
	// Path is the owning document's file path.
	Path string `json:"path"`

	// Title is the owning document's title.
	Title string `json:"title"`

	// ChunkIndex is the hit chunk's position within the document.
	ChunkIndex int `json:"chunk_index"`

	// Score is the raw dot product between the query embedding and the
	// chunk embedding. Results are ordered descending by score.
	Score float64 `json:"score"`

	// Text is the chunk content.
	Text string `json:"text"`

	// Metadata is the chunk's decoded metadata map. Never nil.
	Metadata map[string]string `json:"metadata"`
}

// ChunkMatch is a raw scored row from the store, before the search path
// decodes its metadata. Metadata holds the stored JSON encoding; an empty
// string means no metadata was stored.
type ChunkMatch struct {
	Path       string
	Title      string
	ChunkIndex int
	Text       string
	Metadata   string
	Score      float64
}
