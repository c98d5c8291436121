package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	configfile "github.com/quarry-search/quarry/internal/adapters/driven/config/file"
	"github.com/quarry-search/quarry/internal/adapters/driven/embedding/cached"
	"github.com/quarry-search/quarry/internal/adapters/driven/embedding/openai"
	"github.com/quarry-search/quarry/internal/adapters/driven/index/logical"
	"github.com/quarry-search/quarry/internal/adapters/driven/storage/sqlite"
	"github.com/quarry-search/quarry/internal/adapters/driving/cli"
	"github.com/quarry-search/quarry/internal/chunker"
	"github.com/quarry-search/quarry/internal/core/services"
	"github.com/quarry-search/quarry/internal/parsers"
)

func main() {
	// Optional .env for the embedding API key
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settings := configfile.ResolveSettings(configStore)

	dataDir := settings.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".quarry", "data")
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()

	index, err := logical.Open(dataDir, settings.IndexName)
	if err != nil {
		return fmt.Errorf("opening vector index: %w", err)
	}
	defer index.Close()

	docStore := store.DocumentStore()

	// The embedding backend needs an API key; without one the index
	// maintenance and listing commands still work.
	var retrieval *services.RetrievalService
	if settings.APIKey != "" {
		backend, err := openai.NewEmbeddingService(openai.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.EmbeddingBaseURL,
			Model:             settings.EmbeddingModel,
			RequestsPerSecond: settings.RequestsPerSecond,
		})
		if err != nil {
			return fmt.Errorf("configuring embedding backend: %w", err)
		}
		embedder := cached.New(backend, store.EmbeddingCache())
		defer embedder.Close()

		retrieval = services.NewRetrievalService(
			parsers.Default(),
			newChunker(settings),
			embedder,
			index,
			docStore,
		)
	}

	svcs := cli.Services{
		DocumentStore: docStore,
		VectorIndex:   index,
		ConfigStore:   configStore,
		QueryTopK:     settings.TopK,
	}
	if retrieval != nil {
		svcs.Retrieval = retrieval
	}
	cli.SetServices(svcs)

	return cli.Execute()
}

func newChunker(settings configfile.Settings) services.Chunker {
	var opts []chunker.Option
	if settings.ChunkSize > 0 {
		opts = append(opts, chunker.WithChunkSize(settings.ChunkSize))
	}
	if settings.ChunkOverlap > 0 {
		opts = append(opts, chunker.WithOverlap(settings.ChunkOverlap))
	}
	return chunker.New(opts...)
}
