package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorIndex, which stores and searches vectors.
// EmbeddingService generates vectors; VectorIndex stores them.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - OpenAI-compatible local inference servers
//   - The content-hash caching decorator wrapping either of the above
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. The result is
	// order-preserving and one-to-one with the input. A backend failure
	// fails the whole batch; no partial result is returned.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 1536, 3072).
	// This is determined by the model and must match the vector index.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// EmbeddingCache is a durable store of computed embeddings keyed purely by a
// content hash of the exact input text. Identical text anywhere in the corpus
// embeds once. Concurrent writers to the same key are idempotent: the same
// input always produces the same vector, so last writer wins harmlessly.
type EmbeddingCache interface {
	// Get returns the cached vector for the key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) ([]float32, error)

	// Put stores the vector under the key.
	Put(ctx context.Context, key string, vector []float32) error

	// Close releases resources.
	Close() error
}
