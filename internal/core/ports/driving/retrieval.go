package driving

import (
	"context"

	"github.com/quarry-search/quarry/internal/core/domain"
)

// QueryOptions configures a retrieval query.
type QueryOptions struct {
	// TopK is the maximum number of passages to return.
	TopK int

	// DocumentID restricts results to a single document when non-empty.
	DocumentID string
}

// RetrievalService exposes the ingestion and retrieval pipeline to
// external actors.
type RetrievalService interface {
	// Ingest runs parse, chunk, embed and index for the registered
	// document, then marks it ingested. Returns the number of chunks
	// produced. A failure anywhere leaves the index unchanged and the
	// document not marked ingested.
	Ingest(ctx context.Context, documentID, sourcePath string) (int, error)

	// Query embeds the query text, searches the index and enriches each
	// hit with the owning document's title and a citation. Hits whose
	// document cannot be resolved are dropped, not failed.
	Query(ctx context.Context, queryText string, opts QueryOptions) ([]domain.RetrievedPassage, error)

	// DeleteDocument removes a document's chunks from search results.
	DeleteDocument(ctx context.Context, documentID string) error
}
