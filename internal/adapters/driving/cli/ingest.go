package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quarry-search/quarry/internal/core/domain"
)

// mimeTypes maps supported file extensions to their MIME types,
// recorded on the document at registration time.
var mimeTypes = map[string]string{
	".pdf":      "application/pdf",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
}

var ingestTitle string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document into the index",
	Long: `Registers the file as a document and runs the full ingestion
pipeline: parse, chunk, embed and index. The document title defaults to
the file name without its extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "document title used in citations")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if retrievalService == nil || documentStore == nil {
		return errors.New("retrieval service not configured")
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	mimeType, ok := mimeTypes[ext]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}

	title := ingestTitle
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ctx := context.Background()
	doc := &domain.Document{
		ID:         uuid.NewString(),
		Title:      title,
		SourcePath: path,
		MIMEType:   mimeType,
		CreatedAt:  time.Now().UTC(),
	}
	if err := documentStore.Save(ctx, doc); err != nil {
		return fmt.Errorf("registering document: %w", err)
	}

	count, err := retrievalService.Ingest(ctx, doc.ID, path)
	if err != nil {
		// Keep the registration so a fixed-up source can be re-ingested,
		// unless the file produced nothing at all.
		if errors.Is(err, domain.ErrEmptyDocument) {
			_ = documentStore.Delete(ctx, doc.ID)
		}
		return fmt.Errorf("ingesting %s: %w", args[0], err)
	}

	cmd.Printf("Ingested %s\n", args[0])
	cmd.Printf("  Document ID: %s\n", doc.ID)
	cmd.Printf("  Title:       %s\n", title)
	cmd.Printf("  Chunks:      %d\n", count)
	return nil
}
