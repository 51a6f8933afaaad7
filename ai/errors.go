package ai

import "errors"

var (
	// ErrUnknownProvider is returned for an unsupported Config.Provider.
	ErrUnknownProvider = errors.New("unknown embedding provider")

	// ErrEmbedderRequired is returned when a wrapper is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrProviderRequired is returned when Guard is given a nil provider.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrEmbeddingCountMismatch is returned when a batch call yields a
	// different number of vectors than inputs.
	ErrEmbeddingCountMismatch = errors.New("embedding count does not match input count")
)
