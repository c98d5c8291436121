package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-search/quarry/internal/core/domain"
	"github.com/quarry-search/quarry/internal/core/ports/driving"
)

var (
	queryTopK     int
	queryDocument string
	queryJSON     bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Retrieve passages matching a query",
	Long: `Embeds the query text and returns the closest indexed passages,
each with the document title, page (when known) and a citation.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "n", 0, "maximum number of passages (default from config)")
	queryCmd.Flags().StringVar(&queryDocument, "doc", "", "restrict results to one document ID")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	topK := queryTopK
	if topK <= 0 {
		topK = defaultTopK
	}

	ctx := context.Background()
	opts := driving.QueryOptions{
		TopK:       topK,
		DocumentID: queryDocument,
	}

	passages, err := retrievalService.Query(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, passages)
	}

	return outputQueryText(cmd, passages)
}

func outputQueryJSON(cmd *cobra.Command, passages []domain.RetrievedPassage) error {
	data, err := json.MarshalIndent(passages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal passages: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, passages []domain.RetrievedPassage) error {
	if len(passages) == 0 {
		cmd.Println("No passages found.")
		return nil
	}

	for i, p := range passages {
		cmd.Printf("  [%d] %s (distance %.4f)\n", i+1, p.Citation, p.Score)
		cmd.Printf("      %s\n", p.Text)
		cmd.Println()
	}

	cmd.Printf("Total: %d passages\n", len(passages))
	return nil
}
