// Package plaintext parses plain text documents.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quarry-search/quarry/internal/core/domain"
	"github.com/quarry-search/quarry/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles plain text files. The whole file becomes a single page
// block with no page number.
type Parser struct{}

// New creates a new plain text parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".txt"}
}

// Parse reads the file and returns one trimmed block, or none when the
// file holds no text.
func (p *Parser) Parse(_ context.Context, path string) ([]domain.PageBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}

	return []domain.PageBlock{{
		Text: text,
		Metadata: map[string]any{
			"source": filepath.Base(path),
		},
	}}, nil
}
