// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//
// ResolveSettings turns the raw key-value store into the typed Settings
// used to wire the engine, applying defaults and reading the embedding
// API key from the environment.
package file
