// Package chunker splits a stream of text fragments into overlapping
// fixed-size chunks without materialising the full document text.
package chunker

import (
	"maps"

	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
)

// DefaultMaxChars is the default number of characters per chunk.
const DefaultMaxChars = 1200

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// Source yields the next text fragment of a document. ok is false when the
// sequence is exhausted. Fragments arrive in page order.
type Source func() (text string, ok bool)

// Splitter produces overlapping character chunks from a fragment source.
type Splitter struct {
	maxChars int
	overlap  int
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithMaxChars sets the chunk size in characters.
func WithMaxChars(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(n int) Option {
	return func(s *Splitter) {
		if n >= 0 {
			s.overlap = n
		}
	}
}

// New creates a Splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		maxChars: DefaultMaxChars,
		overlap:  DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must stay below the chunk size
	if s.overlap >= s.maxChars {
		s.overlap = s.maxChars / 4
	}

	return s
}

// MaxChars returns the configured chunk size.
func (s *Splitter) MaxChars() int { return s.maxChars }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns a fresh chunk stream over the source. Every emitted chunk
// carries a copy of meta and a sequential zero-based index. Calling Split
// again with a fresh source restarts the sequence.
func (s *Splitter) Split(src Source, meta map[string]string) *Stream {
	return &Stream{
		src:  src,
		meta: meta,
		max:  s.maxChars,
		step: max(s.maxChars-s.overlap, 1),
	}
}

// Stream is a pull-based iterator over chunks. It buffers at most one
// chunk's worth of text plus the unconsumed remainder of the last fragment,
// so memory stays proportional to the chunk size, not the document size.
// Sizes and offsets count runes, never bytes, so chunk boundaries stay on
// character boundaries for multi-byte text.
type Stream struct {
	src   Source
	meta  map[string]string
	max   int
	step  int
	buf   []rune
	index int
	done  bool
}

// Next returns the next chunk. ok is false once the stream is exhausted.
func (st *Stream) Next() (domain.Chunk, bool) {
	for len(st.buf) < st.max && !st.done {
		part, ok := st.src()
		if !ok {
			st.done = true
			break
		}
		st.buf = append(st.buf, []rune(part)...)
	}

	if len(st.buf) == 0 {
		return domain.Chunk{}, false
	}

	var text string
	if len(st.buf) >= st.max {
		text = string(st.buf[:st.max])
		st.buf = st.buf[st.step:]
	} else {
		// Final chunk: emit whatever remains, even if shorter than the
		// overlap.
		text = string(st.buf)
		st.buf = nil
	}

	chunk := domain.Chunk{
		Index:    st.index,
		Text:     text,
		Metadata: cloneMeta(st.meta),
	}
	st.index++
	return chunk, true
}

func cloneMeta(meta map[string]string) map[string]string {
	m := make(map[string]string, len(meta))
	maps.Copy(m, meta)
	return m
}
