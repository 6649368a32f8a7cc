package domain

// IndexStatus classifies the outcome of indexing a single document.
type IndexStatus string

// Per-document indexing outcomes.
const (
	// StatusInserted means the document was indexed for the first time.
	StatusInserted IndexStatus = "inserted"

	// StatusUpdated means a changed document replaced its previous rows.
	StatusUpdated IndexStatus = "updated"

	// StatusSkipped means the content hash was unchanged, or the document
	// produced no extractable chunks.
	StatusSkipped IndexStatus = "skipped"

	// StatusFailed means extraction, embedding, or storage failed.
	StatusFailed IndexStatus = "failed"
)

// IndexStats accumulates the aggregate outcome of an indexing run.
type IndexStats struct {
	// RunID identifies the indexing run in logs and reports.
	RunID string `json:"run_id"`

	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`

	// Processed lists every file handled, in order, including failures.
	Processed []string `json:"processed"`
}

// Record counts one document outcome and appends its path.
func (s *IndexStats) Record(status IndexStatus, path string) {
	switch status {
	case StatusInserted:
		s.Inserted++
	case StatusUpdated:
		s.Updated++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
	s.Processed = append(s.Processed, path)
}

// Total returns the number of documents processed.
func (s *IndexStats) Total() int {
	return s.Inserted + s.Updated + s.Skipped + s.Failed
}

// StoreStats reports corpus size for status output.
type StoreStats struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
}
