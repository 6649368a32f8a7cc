// Package office extracts text from office and plaintext formats
// (.docx, .rtf, .odt, .txt, .md) as single-fragment documents.
package office

import (
	"context"
	"fmt"

	"github.com/lu4p/cat"

	"github.com/custodia-labs/docfinder-cli/internal/adapters/driven/extraction"
	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
	"github.com/custodia-labs/docfinder-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads whole-file text via the cat library. These formats carry
// no page structure, so the full content arrives as one fragment.
type Extractor struct{}

// New creates an office/plaintext extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".docx", ".rtf", ".odt", ".txt", ".md"}
}

// Metadata reports a single logical page. These formats expose no title
// metadata; the caller falls back to the file stem.
func (e *Extractor) Metadata(_ context.Context, path string) (domain.DocumentInfo, error) {
	return domain.DocumentInfo{PageCount: 1}, nil
}

// Pages reads the file's full text as one normalised fragment.
func (e *Extractor) Pages(_ context.Context, path string) (driven.PageReader, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrExtractionFailed, path, err)
	}

	return &pageReader{text: extraction.NormaliseWhitespace(text)}, nil
}

// pageReader yields the single fragment once.
type pageReader struct {
	text string
	done bool
}

func (r *pageReader) Next() (string, bool) {
	if r.done || r.text == "" {
		return "", false
	}
	r.done = true
	return r.text + "\n", true
}

func (r *pageReader) Err() error {
	return nil
}

func (r *pageReader) Close() error {
	return nil
}
