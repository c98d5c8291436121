package driven

import (
	"context"

	"github.com/quarry-search/quarry/internal/core/domain"
)

// Parser converts a source file into an ordered sequence of page blocks.
// Implementations are read-only over the file system and make no network
// calls.
type Parser interface {
	// Extensions returns the lower-case file extensions this parser
	// handles, including the leading dot (".pdf", ".md").
	Extensions() []string

	// Parse reads the file at path and returns its page blocks in order.
	// Blocks with no extractable text are skipped, not emitted empty.
	Parse(ctx context.Context, path string) ([]domain.PageBlock, error)
}

// ParserRegistry dispatches to a parser by file extension.
type ParserRegistry interface {
	// Parse selects a parser for the path's extension and runs it.
	// Returns domain.ErrUnsupportedFormat when no parser is registered
	// for the extension; no partial output is produced.
	Parse(ctx context.Context, path string) ([]domain.PageBlock, error)

	// Register adds a parser for its declared extensions.
	Register(p Parser)
}
