package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quarry-search/quarry/internal/core/domain"
	"github.com/quarry-search/quarry/internal/core/ports/driven"
	"github.com/quarry-search/quarry/internal/core/ports/driving"
	"github.com/quarry-search/quarry/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// DefaultTopK is the number of passages returned when the caller does not
// ask for a specific count.
const DefaultTopK = 5

// Chunker splits parsed page blocks into bounded overlapping chunks.
type Chunker interface {
	ChunkPages(blocks []domain.PageBlock) []domain.Chunk
}

// RetrievalService runs the ingestion pipeline and serves retrieval
// queries over the vector index.
type RetrievalService struct {
	parsers  driven.ParserRegistry
	chunker  Chunker
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	docStore driven.DocumentStore
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	parsers driven.ParserRegistry,
	chunker Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
) *RetrievalService {
	return &RetrievalService{
		parsers:  parsers,
		chunker:  chunker,
		embedder: embedder,
		index:    index,
		docStore: docStore,
	}
}

// Ingest runs parse, chunk, embed and index for the registered document.
// Returns the number of chunks produced. A failure at any stage leaves the
// index unchanged and the document not marked ingested.
func (s *RetrievalService) Ingest(ctx context.Context, documentID, sourcePath string) (int, error) {
	logger.Debug("Ingesting document %s from %s", documentID, sourcePath)

	blocks, err := s.parsers.Parse(ctx, sourcePath)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", sourcePath, err)
	}
	logger.Debug("Parsed %d page blocks", len(blocks))

	chunks := s.chunker.ChunkPages(blocks)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, sourcePath)
	}
	logger.Debug("Produced %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}

	if err := s.index.Insert(ctx, documentID, chunks, vectors); err != nil {
		return 0, fmt.Errorf("indexing document %s: %w", documentID, err)
	}

	if err := s.docStore.MarkIngested(ctx, documentID, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("marking document %s ingested: %w", documentID, err)
	}

	logger.Info("Ingested document %s: %d chunks", documentID, len(chunks))
	return len(chunks), nil
}

// Query embeds the query text, searches the index and enriches each hit
// with the owning document's title and a citation.
func (s *RetrievalService) Query(
	ctx context.Context, queryText string, opts driving.QueryOptions,
) ([]domain.RetrievedPassage, error) {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return []domain.RetrievedPassage{}, nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	logger.Debug("Query %q, top %d, document filter %q", queryText, topK, opts.DocumentID)

	queryVector, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.index.Search(ctx, queryVector, topK, opts.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	logger.Debug("Index returned %d hits", len(hits))

	passages := make([]domain.RetrievedPassage, 0, len(hits))
	for _, hit := range hits {
		doc, err := s.docStore.Get(ctx, hit.DocumentID)
		if err != nil {
			// A hit pointing at an unregistered document is stale,
			// not fatal. Drop it and keep the rest.
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Dropping hit for unknown document %s", hit.DocumentID)
				continue
			}
			return nil, fmt.Errorf("resolving document %s: %w", hit.DocumentID, err)
		}

		page := pageFromMetadata(hit.Metadata)
		passages = append(passages, domain.RetrievedPassage{
			Text:          hit.Text,
			Score:         hit.Score,
			DocumentID:    hit.DocumentID,
			DocumentTitle: doc.Title,
			ChunkIndex:    hit.ChunkIndex,
			Page:          page,
			Citation:      domain.FormatCitation(doc.Title, page),
		})
	}

	return passages, nil
}

// DeleteDocument removes a document's chunks from search results.
func (s *RetrievalService) DeleteDocument(ctx context.Context, documentID string) error {
	if err := s.index.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("deleting document %s from index: %w", documentID, err)
	}
	logger.Info("Deleted document %s from index", documentID)
	return nil
}

// pageFromMetadata extracts the page number recorded at chunking time.
func pageFromMetadata(metadata map[string]any) *int {
	if metadata == nil {
		return nil
	}
	switch v := metadata["page"].(type) {
	case int:
		return &v
	case int64:
		p := int(v)
		return &p
	case *int:
		return v
	}
	return nil
}
