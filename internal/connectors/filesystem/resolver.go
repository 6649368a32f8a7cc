// Package filesystem resolves user-supplied paths into the list of local
// documents to index.
package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Resolver expands paths into indexable files, filtered by extension.
type Resolver struct {
	extensions map[string]struct{}
}

// NewResolver creates a resolver that accepts files with the given
// extensions (lower-case, leading dot, e.g. ".pdf").
func NewResolver(extensions []string) *Resolver {
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}
	return &Resolver{extensions: exts}
}

// Resolve expands each input path into supported document files.
// Paths are made absolute first: the absolute path is the document's
// identity in the store, so the same file must resolve identically from
// any working directory. Directories are walked recursively with children
// visited in sorted order, so the result is stable across runs. Files
// with unsupported extensions are silently skipped. A path that does not
// exist is an error.
func (r *Resolver) Resolve(paths []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		path, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", path, err)
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			if r.supported(path) {
				files = append(files, path)
			}
			continue
		}

		// filepath.WalkDir visits entries in lexical order per directory.
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && r.supported(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
	}

	return files, nil
}

func (r *Resolver) supported(path string) bool {
	_, ok := r.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
