package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/claimlens/ai"
	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/resilience"
	"github.com/poiesic/claimlens/storage"
)

// BatchResult counts what happened to one batch.
type BatchResult struct {
	Indexed int
	Skipped int
}

// BatchProcessor embeds and stores the chunks for batches of claims.
type BatchProcessor struct {
	chunks   storage.ChunkRepository
	embedder ai.Embedder
	model    string
	policy   resilience.Policy
	force    bool
	now      func() time.Time
	logger   *slog.Logger
}

// NewBatchProcessor creates a new batch processor.
// policy bounds retries of each embedding call. It is ignored when the
// embedder already retries (see ai.IsGuarded), so a failing batch makes
// exactly the guard's attempts.
// force re-embeds claims whose chunk is already current.
func NewBatchProcessor(chunks storage.ChunkRepository, embedder ai.Embedder, model string, policy resilience.Policy, force bool, logger *slog.Logger) *BatchProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	if ai.IsGuarded(embedder) {
		policy = resilience.Policy{MaxAttempts: 1}
	}
	return &BatchProcessor{
		chunks:   chunks,
		embedder: embedder,
		model:    model,
		policy:   policy,
		force:    force,
		now:      time.Now,
		logger:   logger,
	}
}

// Process builds chunk text for each claim, skips claims whose stored
// chunk is current, embeds the rest in one call and stores the chunks.
// Vectors are normalized to unit length before storage.
func (bp *BatchProcessor) Process(ctx context.Context, claims []*core.Claim) (BatchResult, error) {
	var result BatchResult
	if len(claims) == 0 {
		return result, nil
	}

	pending := make([]*core.Claim, 0, len(claims))
	texts := make([]string, 0, len(claims))
	for _, c := range claims {
		text := BuildChunkText(c)
		if !bp.force {
			existing, err := bp.chunks.GetChunk(ctx, c.ClaimNumber)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return result, fmt.Errorf("failed to read chunk %s: %w", c.ClaimNumber, err)
			}
			if IsCurrent(existing, text, bp.model) {
				result.Skipped++
				continue
			}
		}
		pending = append(pending, c)
		texts = append(texts, text)
	}

	if len(pending) == 0 {
		return result, nil
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := bp.policy.Do(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	})
	if err != nil && bp.policy.MaxAttempts > 1 {
		return result, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.policy.MaxAttempts, err)
	}
	if err != nil {
		return result, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if len(embeddings) != len(pending) {
		return result, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(pending), len(embeddings))
	}

	indexedAt := bp.now().UTC()
	chunks := make([]*core.ClaimChunk, len(pending))
	for i, c := range pending {
		chunks[i] = NewChunk(c, texts[i], NormalizeVector(embeddings[i]), bp.model, indexedAt)
	}

	if err := bp.chunks.PutChunks(ctx, chunks...); err != nil {
		return result, fmt.Errorf("failed to store chunks: %w", err)
	}

	result.Indexed = len(chunks)
	bp.logger.Debug("indexed batch", "indexed", result.Indexed, "skipped", result.Skipped)
	return result, nil
}
