package parsers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/quarry-search/quarry/internal/core/domain"
	"github.com/quarry-search/quarry/internal/core/ports/driven"
	"github.com/quarry-search/quarry/internal/parsers/markdown"
	"github.com/quarry-search/quarry/internal/parsers/pdf"
	"github.com/quarry-search/quarry/internal/parsers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry selects a parser by file extension.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]driven.Parser
}

// NewRegistry creates a registry containing the given parsers.
func NewRegistry(parsers ...driven.Parser) *Registry {
	r := &Registry{byExt: make(map[string]driven.Parser)}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// Default returns a registry with all built-in parsers registered.
func Default() *Registry {
	return NewRegistry(pdf.New(), markdown.New(), plaintext.New())
}

// Register adds a parser for its declared extensions.
// A later registration for the same extension replaces the earlier one.
func (r *Registry) Register(p driven.Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range p.Extensions() {
		r.byExt[strings.ToLower(ext)] = p
	}
}

// Parse dispatches by the path's extension.
func (r *Registry) Parse(ctx context.Context, path string) ([]domain.PageBlock, error) {
	ext := strings.ToLower(filepath.Ext(path))

	r.mu.RLock()
	p, ok := r.byExt[ext]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	return p.Parse(ctx, path)
}
