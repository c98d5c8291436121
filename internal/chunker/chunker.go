// Package chunker splits document text into overlapping, boundary-aware
// segments for embedding and retrieval.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/quarry-search/quarry/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of characters re-included at the
// start of the next chunk.
const DefaultOverlap = 150

// boundaryWindow is how far back from the proposed cut the chunker searches
// for a natural boundary.
const boundaryWindow = 100

// separators are boundary markers in priority order: paragraph break first,
// then sentence-ending punctuation followed by a space or newline.
var separators = []string{"\n\n", ". ", ".\n", "! ", "!\n", "? ", "?\n"}

// Chunker splits text into overlapping fixed-size segments, snapping cut
// points to sentence and paragraph boundaries where possible.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must stay below chunk size or the window never advances
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured target chunk size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap length.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits text into overlapping segments. Each emitted chunk is trimmed
// and non-empty; empty or all-whitespace input produces no chunks. The given
// metadata is copied into every chunk.
func (c *Chunker) Chunk(text string, metadata map[string]any) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	estimated := len(text)/(c.chunkSize-c.overlap) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	index := 0

	for start < len(text) {
		end := start + c.chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = snapToBoundary(text, start, end)
		}

		if content := strings.TrimSpace(text[start:end]); content != "" {
			chunks = append(chunks, domain.Chunk{
				Text:     content,
				Index:    index,
				Metadata: copyMetadata(metadata),
			})
			index++
		}

		if end >= len(text) {
			break
		}

		next := alignRune(text, end-c.overlap)
		if next <= start {
			// A snap close to the window start could otherwise move
			// the cursor backwards
			next = end
		}
		start = next
	}

	return chunks
}

// ChunkPages chunks every page block of one document, carrying the block's
// page number into each chunk's metadata and renumbering chunk indexes
// globally in block order.
func (c *Chunker) ChunkPages(blocks []domain.PageBlock) []domain.Chunk {
	var all []domain.Chunk
	globalIndex := 0

	for _, block := range blocks {
		meta := copyMetadata(block.Metadata)
		if block.Page != nil {
			if meta == nil {
				meta = make(map[string]any)
			}
			meta["page"] = *block.Page
		}

		for _, chunk := range c.Chunk(block.Text, meta) {
			chunk.Index = globalIndex
			globalIndex++
			all = append(all, chunk)
		}
	}

	return all
}

// snapToBoundary searches backward within the last boundaryWindow characters
// of [start, end) for the nearest natural boundary and returns the position
// immediately after it. Without a boundary the cut backs off to the start of
// the rune it would otherwise sever, keeping every chunk valid UTF-8.
func snapToBoundary(text string, start, end int) int {
	searchStart := end - boundaryWindow
	if searchStart < start {
		searchStart = start
	}

	for _, sep := range separators {
		if pos := strings.LastIndex(text[searchStart:end], sep); pos != -1 {
			return searchStart + pos + len(sep)
		}
	}

	end = alignRune(text, end)
	if end <= start {
		// The window is narrower than one rune; emit that rune whole
		_, n := utf8.DecodeRuneInString(text[start:])
		end = start + n
	}
	return end
}

// alignRune backs pos off to the start of the rune it falls inside.
func alignRune(text string, pos int) int {
	for pos > 0 && pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
