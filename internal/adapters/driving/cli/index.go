package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Maintain the vector index",
}

var indexCompactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Rewrite the index without deleted entries",
	Long: `Deleted documents leave tombstoned entries behind that still occupy
disk space. Compacting rewrites the index keeping only live entries.`,
	Args: cobra.NoArgs,
	RunE: runIndexCompact,
}

var indexClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all entries from the index",
	Args:  cobra.NoArgs,
	RunE:  runIndexClear,
}

func init() {
	indexCmd.AddCommand(indexCompactCmd)
	indexCmd.AddCommand(indexClearCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexCompact(cmd *cobra.Command, _ []string) error {
	if vectorIndex == nil {
		return errors.New("vector index not configured")
	}

	if err := vectorIndex.Compact(context.Background()); err != nil {
		return fmt.Errorf("failed to compact index: %w", err)
	}

	cmd.Println("Index compacted.")
	return nil
}

func runIndexClear(cmd *cobra.Command, _ []string) error {
	if vectorIndex == nil {
		return errors.New("vector index not configured")
	}

	if err := vectorIndex.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	cmd.Println("Index cleared.")
	return nil
}
