// Package cached decorates an embedding service with a durable
// content-hash cache so byte-identical text never embeds twice.
package cached

import (
	"context"
	"crypto/md5" //nolint:gosec // content addressing, not security
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/quarry-search/quarry/internal/core/domain"
	"github.com/quarry-search/quarry/internal/core/ports/driven"
	"github.com/quarry-search/quarry/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultBatchSize is the maximum number of texts per backend call.
const DefaultBatchSize = 128

// DefaultConcurrency bounds the number of in-flight backend calls during
// one batch embedding.
const DefaultConcurrency = 4

// EmbeddingService wraps a backend with cache lookups keyed by a content
// hash of the exact input text. Cache hits skip the backend entirely;
// misses are embedded in bounded-concurrency sub-batches with input order
// preserved, then persisted to the cache before returning.
type EmbeddingService struct {
	backend     driven.EmbeddingService
	cache       driven.EmbeddingCache
	batchSize   int
	concurrency int
}

// Option configures the cached embedding service.
type Option func(*EmbeddingService)

// WithBatchSize sets the maximum number of texts per backend call.
func WithBatchSize(n int) Option {
	return func(s *EmbeddingService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithConcurrency sets the number of concurrent backend calls.
func WithConcurrency(n int) Option {
	return func(s *EmbeddingService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates a cached embedding service around backend and cache.
func New(backend driven.EmbeddingService, cache driven.EmbeddingCache, opts ...Option) *EmbeddingService {
	s := &EmbeddingService{
		backend:     backend,
		cache:       cache,
		batchSize:   DefaultBatchSize,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CacheKey returns the content hash used to address a text's embedding.
func CacheKey(text string) string {
	sum := md5.Sum([]byte(text)) //nolint:gosec // content addressing, not security
	return hex.EncodeToString(sum[:])
}

// Embed returns the cached vector for text, or computes and caches it.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := CacheKey(text)

	vector, err := s.cache.Get(ctx, key)
	if err == nil {
		return vector, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	vector, err = s.backend.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, key, vector); err != nil {
		return nil, fmt.Errorf("cache put: %w", err)
	}
	return vector, nil
}

// EmbedBatch embeds texts, serving repeats and previously seen texts from
// the cache. Only distinct cache misses reach the backend. The returned
// slice is order-preserving and one-to-one with the input; any backend
// failure fails the whole batch.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))

	// Distinct texts that miss the cache, with every input position they
	// must fill.
	var missTexts []string
	missPositions := make(map[string][]int)

	for i, text := range texts {
		vector, err := s.cache.Get(ctx, CacheKey(text))
		if err == nil {
			results[i] = vector
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("cache get: %w", err)
		}

		if _, seen := missPositions[text]; !seen {
			missTexts = append(missTexts, text)
		}
		missPositions[text] = append(missPositions[text], i)
	}

	if len(missTexts) == 0 {
		logger.Debug("embedding batch fully served from cache (%d texts)", len(texts))
		return results, nil
	}
	logger.Debug("embedding batch: %d texts, %d cache misses", len(texts), len(missTexts))

	missVectors := make([][]float32, len(missTexts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for start := 0; start < len(missTexts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(missTexts) {
			end = len(missTexts)
		}
		g.Go(func() error {
			vectors, err := s.backend.EmbedBatch(gctx, missTexts[start:end])
			if err != nil {
				return err
			}
			if len(vectors) != end-start {
				return fmt.Errorf("%w: expected %d embeddings, got %d",
					domain.ErrEmbeddingBackend, end-start, len(vectors))
			}
			copy(missVectors[start:], vectors)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, text := range missTexts {
		if err := s.cache.Put(ctx, CacheKey(text), missVectors[i]); err != nil {
			return nil, fmt.Errorf("cache put: %w", err)
		}
		for _, pos := range missPositions[text] {
			results[pos] = missVectors[i]
		}
	}

	return results, nil
}

// Dimensions returns the backend's embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.backend.Dimensions()
}

// ModelName returns the backend's model name.
func (s *EmbeddingService) ModelName() string {
	return s.backend.ModelName()
}

// Close releases the backend. The cache is owned by its store and closed
// separately.
func (s *EmbeddingService) Close() error {
	return s.backend.Close()
}
