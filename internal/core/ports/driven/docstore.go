package driven

import (
	"context"
	"time"

	"github.com/quarry-search/quarry/internal/core/domain"
)

// DocumentStore persists document metadata. This is the external relational
// collaborator of the engine: the retrieval service reads it to resolve
// citations and writes exactly one ingestion mark per successful pipeline
// run. Backed by SQLite.
type DocumentStore interface {
	// Save stores or updates a document row.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all registered documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document row.
	Delete(ctx context.Context, id string) error

	// MarkIngested records a successful ingestion timestamp.
	MarkIngested(ctx context.Context, id string, at time.Time) error
}
