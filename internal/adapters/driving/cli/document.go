package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage registered documents",
	Long:  `List registered documents or delete one from the index and registry.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Long:  `Removes the document's chunks from search results and drops its registration.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	ctx := context.Background()
	docs, err := documentStore.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents registered.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title:  %s\n", docs[i].Title)
		cmd.Printf("    Source: %s\n", docs[i].SourcePath)
		if docs[i].IngestedAt != nil {
			cmd.Printf("    Ingested: %s\n", docs[i].IngestedAt.Format(time.RFC3339))
		} else {
			cmd.Printf("    Ingested: never\n")
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if vectorIndex == nil || documentStore == nil {
		return errors.New("index not configured")
	}

	docID := args[0]
	ctx := context.Background()

	// Tombstone the index entries first; a registry row without index
	// entries is harmless, the reverse produces stale hits. Deletion
	// needs no embedding backend, so it works without an API key.
	if err := vectorIndex.DeleteDocument(ctx, docID); err != nil {
		return fmt.Errorf("failed to delete document from index: %w", err)
	}

	if err := documentStore.Delete(ctx, docID); err != nil {
		return fmt.Errorf("failed to delete document registration: %w", err)
	}

	cmd.Printf("Deleted document %s\n", docID)
	return nil
}
