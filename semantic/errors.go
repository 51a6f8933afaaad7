package semantic

import "errors"

var (
	// ErrIndexUnavailable is returned when no chunks have been indexed.
	ErrIndexUnavailable = errors.New("semantic index not built")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrClaimRepositoryRequired is returned when a claim repository is not provided.
	ErrClaimRepositoryRequired = errors.New("claim repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrInvalidTopK is returned for a non-positive top K.
	ErrInvalidTopK = errors.New("top k must be positive")
)
