// Package flat implements an append-only, exhaustive-scan vector index
// ranked by squared Euclidean distance. It has no notion of deletion;
// the logical index wraps it with tombstone filtering and compaction.
package flat

import (
	"encoding/gob"
	"fmt"
	"io"
	"sort"

	"github.com/quarry-search/quarry/internal/core/domain"
)

// Index stores fixed-dimension vectors in insertion order.
// The zero dimension means no vector has been inserted yet; the first
// append establishes the dimension for the index's lifetime.
type Index struct {
	dimension int
	vectors   [][]float32
}

// Hit is a raw search result: the position of a vector in insertion order
// and its squared Euclidean distance to the query.
type Hit struct {
	Position int
	Distance float32
}

// New creates an empty index.
func New() *Index {
	return &Index{}
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// Dimension returns the established vector dimension, or 0 when empty.
func (ix *Index) Dimension() int {
	return ix.dimension
}

// Vector returns the vector at position i.
func (ix *Index) Vector(i int) []float32 {
	return ix.vectors[i]
}

// Append adds vectors in order. The call is all-or-nothing: every vector
// is validated against the established dimension before any is stored.
func (ix *Index) Append(vectors [][]float32) error {
	if len(vectors) == 0 {
		return nil
	}

	dimension := ix.dimension
	if dimension == 0 {
		dimension = len(vectors[0])
		if dimension == 0 {
			return fmt.Errorf("%w: empty vector", domain.ErrDimensionMismatch)
		}
	}
	for i, v := range vectors {
		if len(v) != dimension {
			return fmt.Errorf("%w: vector %d has dimension %d, index expects %d",
				domain.ErrDimensionMismatch, i, len(v), dimension)
		}
	}

	ix.dimension = dimension
	ix.vectors = append(ix.vectors, vectors...)
	return nil
}

// Truncate drops all vectors beyond length n. Used to roll back a
// partially applied mutation before it was persisted.
func (ix *Index) Truncate(n int) {
	if n < 0 || n >= len(ix.vectors) {
		return
	}
	ix.vectors = ix.vectors[:n]
	if n == 0 {
		ix.dimension = 0
	}
}

// Search returns up to k hits ranked by ascending distance, ties broken
// by insertion order. An empty index returns no hits without error.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(ix.vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index expects %d",
			domain.ErrDimensionMismatch, len(query), ix.dimension)
	}

	hits := make([]Hit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = Hit{Position: i, Distance: squaredL2(query, v)}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// squaredL2 computes the squared Euclidean distance between two vectors
// of equal length. Lower means more similar.
func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// snapshot is the gob wire format for a persisted index.
type snapshot struct {
	Dimension int
	Vectors   [][]float32
}

// Encode writes the index to w in gob format.
func (ix *Index) Encode(w io.Writer) error {
	return gob.NewEncoder(w).Encode(snapshot{
		Dimension: ix.dimension,
		Vectors:   ix.vectors,
	})
}

// Decode reads an index previously written by Encode.
func Decode(r io.Reader) (*Index, error) {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return &Index{
		dimension: snap.Dimension,
		vectors:   snap.Vectors,
	}, nil
}
