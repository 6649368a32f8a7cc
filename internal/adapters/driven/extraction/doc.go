// Package extraction provides text extractor adapters and the extension
// registry that selects one per file.
//
// Each subpackage implements driven.TextExtractor for a family of file
// formats. Extractors tolerate unreadable individual pages (logged and
// skipped); only a file that cannot be opened fails the document.
package extraction
