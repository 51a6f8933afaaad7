package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/storage"
	"github.com/timshannon/badgerhold/v4"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is nil", storage.ErrStorageClosed)
	}
	return &ChunkRepository{
		backend: backend,
	}, nil
}

// Close releases resources. ChunkRepository has no resources to release.
func (r *ChunkRepository) Close() error {
	return nil
}

// PutChunks inserts or replaces chunks keyed by claim number.
func (r *ChunkRepository) PutChunks(ctx context.Context, chunks ...*core.ClaimChunk) error {
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	store := r.backend.Store()
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if err := store.TxUpsert(tx, chunk.ClaimNumber, chunk); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunk retrieves the chunk for a claim.
func (r *ChunkRepository) GetChunk(ctx context.Context, claimNumber string) (*core.ClaimChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var chunk core.ClaimChunk
	if err := r.backend.Store().Get(claimNumber, &chunk); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &chunk, nil
}

// ListChunks returns every stored chunk ordered by claim number.
func (r *ChunkRepository) ListChunks(ctx context.Context) ([]*core.ClaimChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var chunks []core.ClaimChunk
	if err := r.backend.Store().Find(&chunks, nil); err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}

	results := make([]*core.ClaimChunk, len(chunks))
	for i := range chunks {
		results[i] = &chunks[i]
	}
	slices.SortFunc(results, func(a, b *core.ClaimChunk) int {
		return strings.Compare(a.ClaimNumber, b.ClaimNumber)
	})
	return results, nil
}

// CountChunks returns the number of stored chunks.
func (r *ChunkRepository) CountChunks(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := r.backend.Store().Count(&core.ClaimChunk{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return int(count), nil
}
