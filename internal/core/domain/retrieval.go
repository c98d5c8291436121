package domain

import "fmt"

// IndexHit is a raw similarity search result from the vector index, before
// enrichment with document metadata.
type IndexHit struct {
	// Text is the stored chunk text.
	Text string

	// Score is the squared Euclidean distance to the query vector.
	// Lower means more similar.
	Score float32

	// DocumentID is the owning document.
	DocumentID string

	// ChunkIndex is the chunk position within the owning document.
	ChunkIndex int

	// Metadata is the chunk metadata captured at insertion time.
	Metadata map[string]any
}

// RetrievedPassage is a fully enriched search result as returned to callers.
type RetrievedPassage struct {
	// Text is the passage content.
	Text string `json:"text"`

	// Score is the squared Euclidean distance; lower is better.
	Score float32 `json:"score"`

	// DocumentID identifies the owning document.
	DocumentID string `json:"document_id"`

	// DocumentTitle is resolved from the document store.
	DocumentTitle string `json:"document_title"`

	// ChunkIndex is the chunk position within the owning document.
	ChunkIndex int `json:"chunk_index"`

	// Page is the source page number, when known.
	Page *int `json:"page,omitempty"`

	// Citation is the formatted reference string backing this passage.
	Citation string `json:"citation"`
}

// FormatCitation builds the citation string for a document title and an
// optional page number: [doc:{title}#page{page}] or [doc:{title}].
func FormatCitation(title string, page *int) string {
	if page != nil {
		return fmt.Sprintf("[doc:%s#page%d]", title, *page)
	}
	return fmt.Sprintf("[doc:%s]", title)
}
