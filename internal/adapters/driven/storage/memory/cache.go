package memory

import (
	"context"
	"sync"

	"github.com/quarry-search/quarry/internal/core/domain"
	"github.com/quarry-search/quarry/internal/core/ports/driven"
)

// Ensure EmbeddingCache implements the interface.
var _ driven.EmbeddingCache = (*EmbeddingCache)(nil)

// EmbeddingCache is an in-memory implementation of driven.EmbeddingCache.
// Unlike the SQLite cache it does not survive a restart.
type EmbeddingCache struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewEmbeddingCache creates a new in-memory embedding cache.
func NewEmbeddingCache() *EmbeddingCache {
	return &EmbeddingCache{
		vectors: make(map[string][]float32),
	}
}

// Get returns the cached vector for the key, or domain.ErrNotFound.
func (c *EmbeddingCache) Get(_ context.Context, key string) ([]float32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	vector, ok := c.vectors[key]
	if !ok {
		return nil, domain.ErrNotFound
	}

	out := make([]float32, len(vector))
	copy(out, vector)
	return out, nil
}

// Put stores the vector under the key.
func (c *EmbeddingCache) Put(_ context.Context, key string, vector []float32) error {
	if key == "" {
		return domain.ErrInvalidInput
	}

	stored := make([]float32, len(vector))
	copy(stored, vector)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors[key] = stored
	return nil
}

// Len returns the number of cached vectors.
func (c *EmbeddingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}

// Close releases resources.
func (c *EmbeddingCache) Close() error {
	return nil
}
