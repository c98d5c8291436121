package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file extension no parser handles.
	// Non-retryable; surfaced before any chunking or embedding work begins.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrEmptyDocument indicates parsing succeeded but produced zero usable
	// chunks. Ingestion aborts and the document is not marked ingested.
	ErrEmptyDocument = errors.New("empty document")

	// ErrEmbeddingBackend indicates the embedding backend is unreachable,
	// rate-limited, timed out, or returned malformed data. Retryable by the
	// caller with backoff; the engine itself never retries.
	ErrEmbeddingBackend = errors.New("embedding backend error")

	// ErrDimensionMismatch indicates a vector/chunk count mismatch or a
	// vector whose dimensionality disagrees with the established index
	// dimension. Fatal for that insert call; the index is left unchanged.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrIndexCorruption indicates the persisted vector structure and its
	// sidecar metadata disagree in count, or either fails to deserialize.
	// Fatal at load time rather than silently returning wrong results.
	ErrIndexCorruption = errors.New("index corruption")
)
