package driven

// ExtractorRegistry routes a file path to the TextExtractor for its
// extension.
type ExtractorRegistry interface {
	// ForPath returns the extractor registered for the path's extension,
	// or domain.ErrUnsupportedType.
	ForPath(path string) (TextExtractor, error)

	// Extensions returns every registered extension, sorted.
	Extensions() []string
}

// PathResolver expands user-supplied paths into indexable document files.
type PathResolver interface {
	// Resolve returns the supported files under the given paths, with
	// directories walked recursively in stable order.
	Resolve(paths []string) ([]string, error)
}
