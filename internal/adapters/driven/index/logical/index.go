// Package logical implements the durable vector index port. It wraps the
// append-only flat index with sidecar chunk metadata, tombstone-based
// deletion and explicit compaction.
//
// Persistence uses two coupled artifacts per named index: <name>.index
// (the vector structure) and <name>.meta (the sidecar rows). Both are
// written with a temp-file-then-rename pattern so concurrent readers see
// either the old complete state or the new one, never a half-written
// file. Loading one artifact without the other, or artifacts whose entry
// counts disagree, fails fast with domain.ErrIndexCorruption.
package logical

import (
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/quarry-search/quarry/internal/adapters/driven/index/flat"
	"github.com/quarry-search/quarry/internal/core/domain"
	"github.com/quarry-search/quarry/internal/core/ports/driven"
	"github.com/quarry-search/quarry/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

func init() {
	// Chunk metadata is transported as interface values inside gob
	gob.Register(map[string]any{})
}

// entry is the sidecar metadata row for one indexed vector.
type entry struct {
	DocumentID string
	ChunkIndex int
	Text       string
	Metadata   map[string]any
	Deleted    bool
}

// metaSnapshot is the gob wire format of the sidecar artifact.
// VectorCount pins the artifact to a specific vector structure version.
type metaSnapshot struct {
	VectorCount int
	Entries     []entry
}

// Index is a durable, tombstone-aware vector index. Mutations are
// serialized behind a write lock and persisted synchronously before
// returning; searches take a read lock and may run concurrently.
type Index struct {
	mu         sync.RWMutex
	indexPath  string
	metaPath   string
	flat       *flat.Index
	entries    []entry
	tombstones int
}

// Open loads the named index from dir, or creates an empty one. A fresh
// index is persisted immediately so both artifacts exist from the start.
func Open(dir, name string) (*Index, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	ix := &Index{
		indexPath: filepath.Join(dir, name+".index"),
		metaPath:  filepath.Join(dir, name+".meta"),
		flat:      flat.New(),
	}

	indexExists := fileExists(ix.indexPath)
	metaExists := fileExists(ix.metaPath)

	switch {
	case !indexExists && !metaExists:
		if err := ix.persistLocked(); err != nil {
			return nil, fmt.Errorf("initialising index: %w", err)
		}
		return ix, nil

	case indexExists != metaExists:
		return nil, fmt.Errorf("%w: index %q has only one of its two artifacts",
			domain.ErrIndexCorruption, name)
	}

	if err := ix.load(); err != nil {
		return nil, err
	}
	logger.Info("loaded vector index %s: %d entries, %d tombstones", name, ix.flat.Len(), ix.tombstones)
	return ix, nil
}

// load reads and validates both artifacts.
func (ix *Index) load() error {
	indexFile, err := os.Open(ix.indexPath)
	if err != nil {
		return fmt.Errorf("%w: reading vector structure: %w", domain.ErrIndexCorruption, err)
	}
	defer indexFile.Close()

	loaded, err := flat.Decode(indexFile)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexCorruption, err)
	}

	metaFile, err := os.Open(ix.metaPath)
	if err != nil {
		return fmt.Errorf("%w: reading sidecar metadata: %w", domain.ErrIndexCorruption, err)
	}
	defer metaFile.Close()

	var meta metaSnapshot
	if err := gob.NewDecoder(metaFile).Decode(&meta); err != nil {
		return fmt.Errorf("%w: decode sidecar metadata: %w", domain.ErrIndexCorruption, err)
	}

	if meta.VectorCount != loaded.Len() || len(meta.Entries) != loaded.Len() {
		return fmt.Errorf("%w: vector structure holds %d entries, sidecar holds %d (expected %d)",
			domain.ErrIndexCorruption, loaded.Len(), len(meta.Entries), meta.VectorCount)
	}

	ix.flat = loaded
	ix.entries = meta.Entries
	ix.tombstones = 0
	for _, e := range ix.entries {
		if e.Deleted {
			ix.tombstones++
		}
	}
	return nil
}

// Insert appends one entry per chunk and persists the complete structure
// before returning. All-or-nothing: validation failures and persistence
// failures leave the index unchanged.
func (ix *Index) Insert(_ context.Context, documentID string, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors",
			domain.ErrDimensionMismatch, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	prevLen := ix.flat.Len()
	if err := ix.flat.Append(vectors); err != nil {
		return err
	}

	for _, chunk := range chunks {
		ix.entries = append(ix.entries, entry{
			DocumentID: documentID,
			ChunkIndex: chunk.Index,
			Text:       chunk.Text,
			Metadata:   chunk.Metadata,
		})
	}

	if err := ix.persistLocked(); err != nil {
		ix.flat.Truncate(prevLen)
		ix.entries = ix.entries[:prevLen]
		return fmt.Errorf("persisting index: %w", err)
	}

	logger.Debug("indexed %d chunks for document %s", len(chunks), documentID)
	return nil
}

// Search returns up to topK live entries ranked by ascending squared
// Euclidean distance. To survive post-filtering by document and
// tombstones without under-returning, it fetches more raw candidates
// than topK before filtering.
func (ix *Index) Search(_ context.Context, query []float32, topK int, documentID string) ([]domain.IndexHit, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.flat.Len() == 0 || topK <= 0 {
		return nil, nil
	}

	fetch := 2*topK + ix.tombstones
	if fetch > ix.flat.Len() {
		fetch = ix.flat.Len()
	}

	raw, err := ix.flat.Search(query, fetch)
	if err != nil {
		return nil, err
	}

	results := make([]domain.IndexHit, 0, topK)
	for _, hit := range raw {
		e := ix.entries[hit.Position]
		if e.Deleted {
			continue
		}
		if documentID != "" && e.DocumentID != documentID {
			continue
		}

		results = append(results, domain.IndexHit{
			Text:       e.Text,
			Score:      hit.Distance,
			DocumentID: e.DocumentID,
			ChunkIndex: e.ChunkIndex,
			Metadata:   e.Metadata,
		})
		if len(results) == topK {
			break
		}
	}
	return results, nil
}

// DeleteDocument tombstones every entry of the document. The vectors stay
// in the flat structure until Compact, but tombstoned entries never
// appear in search results.
func (ix *Index) DeleteDocument(_ context.Context, documentID string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	var marked []int
	for i := range ix.entries {
		if !ix.entries[i].Deleted && ix.entries[i].DocumentID == documentID {
			ix.entries[i].Deleted = true
			marked = append(marked, i)
		}
	}
	if len(marked) == 0 {
		return nil
	}
	ix.tombstones += len(marked)

	if err := ix.persistLocked(); err != nil {
		for _, i := range marked {
			ix.entries[i].Deleted = false
		}
		ix.tombstones -= len(marked)
		return fmt.Errorf("persisting index: %w", err)
	}

	logger.Debug("tombstoned %d chunks for document %s", len(marked), documentID)
	return nil
}

// Compact rewrites both artifacts without tombstoned entries,
// reclaiming their space.
func (ix *Index) Compact(_ context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.tombstones == 0 {
		return nil
	}

	compacted := flat.New()
	live := make([]entry, 0, len(ix.entries)-ix.tombstones)
	liveVectors := make([][]float32, 0, len(ix.entries)-ix.tombstones)
	for i, e := range ix.entries {
		if e.Deleted {
			continue
		}
		live = append(live, e)
		liveVectors = append(liveVectors, ix.flat.Vector(i))
	}
	if err := compacted.Append(liveVectors); err != nil {
		return err
	}

	prevFlat, prevEntries, prevTombstones := ix.flat, ix.entries, ix.tombstones
	ix.flat = compacted
	ix.entries = live
	ix.tombstones = 0

	if err := ix.persistLocked(); err != nil {
		ix.flat, ix.entries, ix.tombstones = prevFlat, prevEntries, prevTombstones
		return fmt.Errorf("persisting index: %w", err)
	}

	logger.Info("compacted index: %d live entries, %d reclaimed", len(live), prevTombstones)
	return nil
}

// Clear resets the index to zero entries, persisted immediately.
func (ix *Index) Clear(_ context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	prevFlat, prevEntries, prevTombstones := ix.flat, ix.entries, ix.tombstones
	ix.flat = flat.New()
	ix.entries = nil
	ix.tombstones = 0

	if err := ix.persistLocked(); err != nil {
		ix.flat, ix.entries, ix.tombstones = prevFlat, prevEntries, prevTombstones
		return fmt.Errorf("persisting index: %w", err)
	}
	return nil
}

// Len returns the number of live (non-tombstoned) entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries) - ix.tombstones
}

// Tombstones returns the number of entries awaiting compaction.
func (ix *Index) Tombstones() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.tombstones
}

// Close releases resources. All writes are synchronous, so there is
// nothing to flush.
func (ix *Index) Close() error {
	return nil
}

// persistLocked writes both artifacts atomically. Callers must hold the
// write lock.
func (ix *Index) persistLocked() error {
	if err := writeAtomic(ix.indexPath, ix.flat.Encode); err != nil {
		return fmt.Errorf("writing vector structure: %w", err)
	}

	meta := metaSnapshot{
		VectorCount: ix.flat.Len(),
		Entries:     ix.entries,
	}
	if err := writeAtomic(ix.metaPath, func(w io.Writer) error {
		return gob.NewEncoder(w).Encode(meta)
	}); err != nil {
		return fmt.Errorf("writing sidecar metadata: %w", err)
	}
	return nil
}

// writeAtomic writes to a temp file in the target directory and renames
// it over path, so readers never observe a partial write.
func writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// fileExists reports whether path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
