package domain

import "time"

// Document represents a registered source document. The engine does not own
// the document lifecycle; rows live in the external document store and the
// engine only reads them to resolve citations and marks them ingested.
type Document struct {
	// ID is the opaque document identifier.
	ID string

	// Title is the human-readable title used in citations.
	Title string

	// SourcePath is the location of the original file on disk.
	SourcePath string

	// MIMEType is derived from the file extension at registration time.
	MIMEType string

	// CreatedAt is when the document was registered.
	CreatedAt time.Time

	// IngestedAt is when the document was last successfully ingested.
	// Nil until the full parse-chunk-embed-index pipeline has completed.
	IngestedAt *time.Time
}

// PageBlock is a page-like unit of text produced by a parser and consumed by
// the chunker. PDF parsing yields one block per physical page; Markdown and
// plain text yield a single block for the whole file.
type PageBlock struct {
	// Text is the extracted text, trimmed of surrounding whitespace.
	Text string

	// Page is the 1-based physical page number, or nil when the format has
	// no page concept.
	Page *int

	// Metadata carries provenance such as the source file name and the
	// total page count.
	Metadata map[string]any
}

// Chunk is a bounded, overlapping slice of document text. It is the atomic
// unit of embedding and retrieval.
type Chunk struct {
	// Text is the chunk content, non-empty after trimming.
	Text string

	// Index is the position of the chunk within one ingestion of a single
	// document. Strictly increasing across all page blocks, in block order
	// then position order. Unique per (document, ingestion), not globally.
	Index int

	// Metadata carries at least the source file name and, when known, the
	// page number the chunk was cut from.
	Metadata map[string]any
}

// Page returns the page number recorded in the chunk metadata, or nil.
func (c Chunk) Page() *int {
	if c.Metadata == nil {
		return nil
	}
	switch v := c.Metadata["page"].(type) {
	case int:
		return &v
	case *int:
		return v
	}
	return nil
}
