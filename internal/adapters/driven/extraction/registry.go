package extraction

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
	"github.com/custodia-labs/docfinder-cli/internal/core/ports/driven"
)

// Registry selects a TextExtractor by file extension.
type Registry struct {
	byExt map[string]driven.TextExtractor
}

// NewRegistry creates a registry over the given extractors. A later
// extractor claiming an already-registered extension wins.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.TextExtractor)}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExt[strings.ToLower(ext)] = e
		}
	}
	return r
}

// ForPath returns the extractor handling path's extension.
// Returns domain.ErrUnsupportedType when no extractor is registered for it.
func (r *Registry) ForPath(path string) (driven.TextExtractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, ext)
	}
	return e, nil
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
