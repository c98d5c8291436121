package file

import (
	"os"

	"github.com/quarry-search/quarry/internal/core/ports/driven"
)

// Configuration keys recognised in config.toml.
const (
	KeyDataDir          = "data.dir"
	KeyIndexName        = "index.name"
	KeyChunkSize        = "chunk.size"
	KeyChunkOverlap     = "chunk.overlap"
	KeyEmbeddingModel   = "embedding.model"
	KeyEmbeddingBaseURL = "embedding.base_url"
	KeyEmbeddingAPIKey  = "embedding.api_key_env"
	KeyEmbeddingRateRPS = "embedding.requests_per_second"
	KeyQueryTopK        = "query.top_k"
)

// Defaults applied when a key is absent from the config file.
const (
	DefaultIndexName = "main"
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
	DefaultTopK      = 5
)

// Settings is the resolved engine configuration. Zero values mean
// "use the component default".
type Settings struct {
	// DataDir is the directory holding the metadata database and index
	// files. Empty means the component default under the home directory.
	DataDir string

	// IndexName names the vector index artifact pair on disk.
	IndexName string

	// ChunkSize and ChunkOverlap control the chunker, in characters.
	ChunkSize    int
	ChunkOverlap int

	// EmbeddingModel and EmbeddingBaseURL configure the embedding backend.
	EmbeddingModel   string
	EmbeddingBaseURL string

	// APIKey is read from the environment variable named by
	// embedding.api_key_env. Never stored in the config file.
	APIKey string

	// RequestsPerSecond throttles embedding API calls.
	RequestsPerSecond float64

	// TopK is the default number of passages returned per query.
	TopK int
}

// ResolveSettings reads the engine settings from the store, applying
// defaults for absent keys and the API key from the environment.
func ResolveSettings(store driven.ConfigStore) Settings {
	s := Settings{
		DataDir:           store.GetString(KeyDataDir),
		IndexName:         store.GetString(KeyIndexName),
		ChunkSize:         store.GetInt(KeyChunkSize),
		ChunkOverlap:      store.GetInt(KeyChunkOverlap),
		EmbeddingModel:    store.GetString(KeyEmbeddingModel),
		EmbeddingBaseURL:  store.GetString(KeyEmbeddingBaseURL),
		RequestsPerSecond: store.GetFloat(KeyEmbeddingRateRPS),
		TopK:              store.GetInt(KeyQueryTopK),
	}

	if s.IndexName == "" {
		s.IndexName = DefaultIndexName
	}
	if s.TopK <= 0 {
		s.TopK = DefaultTopK
	}

	keyEnv := store.GetString(KeyEmbeddingAPIKey)
	if keyEnv == "" {
		keyEnv = DefaultAPIKeyEnv
	}
	s.APIKey = os.Getenv(keyEnv)

	return s
}
