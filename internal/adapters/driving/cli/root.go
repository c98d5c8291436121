// Package cli implements the command-line interface for quarry.
// Commands talk to the core through the driving ports; wiring of the
// concrete adapters happens in the main package via SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/quarry-search/quarry/internal/core/ports/driven"
	"github.com/quarry-search/quarry/internal/core/ports/driving"
	"github.com/quarry-search/quarry/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services the commands depend on, set once at startup.
var (
	retrievalService driving.RetrievalService
	documentStore    driven.DocumentStore
	vectorIndex      driven.VectorIndex
	configStore      driven.ConfigStore
	defaultTopK      int
)

// verboseFlag enables debug logging on stderr.
var verboseFlag bool

// Services bundles everything the commands need.
type Services struct {
	Retrieval     driving.RetrievalService
	DocumentStore driven.DocumentStore
	VectorIndex   driven.VectorIndex
	ConfigStore   driven.ConfigStore

	// QueryTopK is the configured default passage count for query.
	QueryTopK int
}

// SetServices injects the wired services into the command tree.
func SetServices(s Services) {
	retrievalService = s.Retrieval
	documentStore = s.DocumentStore
	vectorIndex = s.VectorIndex
	configStore = s.ConfigStore
	defaultTopK = s.QueryTopK
}

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Local document ingestion and semantic retrieval",
	Long: `Quarry ingests PDF, Markdown and plain text documents into a local
vector index and answers natural-language queries with cited passages.

Documents are parsed, split into overlapping chunks, embedded through an
OpenAI-compatible API and stored in a durable on-disk index. Queries
return the closest passages together with their source citations.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
