// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Parser: Converts a source file into ordered page blocks
//   - ParserRegistry: Selects a parser by file extension
//   - EmbeddingService: Maps text to fixed-dimension vectors
//   - EmbeddingCache: Durable content-hash cache of computed vectors
//   - VectorIndex: Similarity-searchable vector storage
//   - DocumentStore: External document metadata store (citation resolution)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or parser package
package driven
