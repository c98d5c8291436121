package driven

import (
	"context"

	"github.com/quarry-search/quarry/internal/core/domain"
)

// VectorIndex stores embedding vectors with sidecar chunk metadata and
// serves nearest-neighbour queries. The index is the single writer of its
// entries; mutations are serialized and persisted durably before returning.
type VectorIndex interface {
	// Insert appends one entry per chunk, pairing chunks[i] with
	// vectors[i]. The call is all-or-nothing: a count mismatch between
	// chunks and vectors, or a vector whose dimension disagrees with the
	// established index dimension, fails with domain.ErrDimensionMismatch
	// before any mutation. On success the complete structure has been
	// persisted durably.
	Insert(ctx context.Context, documentID string, chunks []domain.Chunk, vectors [][]float32) error

	// Search returns up to topK entries ranked by ascending squared
	// Euclidean distance to query, ties broken by insertion order. When
	// documentID is non-empty, results are restricted to that document.
	// An empty index returns an empty result without error.
	Search(ctx context.Context, query []float32, topK int, documentID string) ([]domain.IndexHit, error)

	// DeleteDocument makes all entries of the document unreachable by
	// Search. Vector storage is reclaimed by Compact, not here.
	DeleteDocument(ctx context.Context, documentID string) error

	// Compact rewrites the index without tombstoned entries.
	Compact(ctx context.Context) error

	// Clear resets the index to zero entries, persisted immediately.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
