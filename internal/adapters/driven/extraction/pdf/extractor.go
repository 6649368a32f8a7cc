// Package pdf extracts page text from PDF files.
package pdf

import (
	"context"
	"fmt"

	"github.com/dslipak/pdf"

	"github.com/custodia-labs/docfinder-cli/internal/adapters/driven/extraction"
	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
	"github.com/custodia-labs/docfinder-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docfinder-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads PDF text page by page.
type Extractor struct{}

// New creates a PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Metadata returns the PDF's title (when the Info dictionary carries one)
// and its page count.
func (e *Extractor) Metadata(_ context.Context, path string) (domain.DocumentInfo, error) {
	reader, err := pdf.Open(path)
	if err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("%w: opening %s: %w", domain.ErrExtractionFailed, path, err)
	}

	return domain.DocumentInfo{
		Title:     readTitle(reader),
		PageCount: reader.NumPage(),
	}, nil
}

// Pages opens the PDF and returns a reader yielding one normalised text
// fragment per page. Pages that fail to parse are logged and skipped.
func (e *Extractor) Pages(_ context.Context, path string) (driven.PageReader, error) {
	reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", domain.ErrExtractionFailed, path, err)
	}

	return &pageReader{
		path:   path,
		reader: reader,
		total:  reader.NumPage(),
		page:   1,
	}, nil
}

// readTitle pulls the Title entry from the document Info dictionary.
// Malformed dictionaries make the underlying library panic, so recover and
// fall back to an empty title.
func readTitle(reader *pdf.Reader) (title string) {
	defer func() {
		if recover() != nil {
			title = ""
		}
	}()

	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return ""
	}
	val := info.Key("Title")
	if val.IsNull() {
		return ""
	}
	return val.Text()
}

// pageReader iterates PDF pages one at a time. Pages are 1-based in the
// underlying library.
type pageReader struct {
	path   string
	reader *pdf.Reader
	total  int
	page   int
}

func (r *pageReader) Next() (string, bool) {
	for r.page <= r.total {
		n := r.page
		r.page++

		text, err := extractPage(r.reader, n)
		if err != nil {
			logger.Warn("Skipping page %d of %s: %v", n, r.path, err)
			continue
		}
		text = extraction.NormaliseWhitespace(text)
		if text == "" {
			continue
		}
		// Newline separates pages in the logical concatenation.
		return text + "\n", true
	}
	return "", false
}

func (r *pageReader) Err() error {
	return nil
}

func (r *pageReader) Close() error {
	return nil
}

// extractPage reads one page's plain text, converting library panics on
// malformed content streams into errors.
func extractPage(reader *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parsing page content: %v", rec)
		}
	}()

	page := reader.Page(n)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d has no content", n)
	}
	return page.GetPlainText(nil)
}
