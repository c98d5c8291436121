// Package pdf parses PDF documents using github.com/ledongthuc/pdf.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/quarry-search/quarry/internal/core/domain"
	"github.com/quarry-search/quarry/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser extracts text from PDF files, one page block per physical page.
// Pages yielding no extractable text (scans, images) are skipped rather
// than emitted as empty blocks.
type Parser struct{}

// New creates a new PDF parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".pdf"}
}

// Parse extracts per-page text with source and page-count metadata.
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.PageBlock, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	source := filepath.Base(path)
	total := reader.NumPage()

	var blocks []domain.PageBlock
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Undecodable page, treat like an empty one
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pageNum := i
		blocks = append(blocks, domain.PageBlock{
			Text: text,
			Page: &pageNum,
			Metadata: map[string]any{
				"source":     source,
				"page_count": total,
			},
		})
	}

	return blocks, nil
}
