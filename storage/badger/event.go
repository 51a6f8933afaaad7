package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/storage"
	"github.com/timshannon/badgerhold/v4"
)

// EventRepository implements storage.EventRepository for BadgerDB.
type EventRepository struct {
	backend *Backend
	now     func() time.Time
}

var _ storage.EventRepository = (*EventRepository)(nil)

// NewEventRepository creates a new EventRepository.
func NewEventRepository(backend *Backend) (*EventRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is nil", storage.ErrStorageClosed)
	}
	return &EventRepository{
		backend: backend,
		now:     time.Now,
	}, nil
}

// Close releases resources. EventRepository has no resources to release.
func (r *EventRepository) Close() error {
	return nil
}

// AddEvents stores events keyed by their ID.
func (r *EventRepository) AddEvents(ctx context.Context, events ...*core.ClaimEvent) ([]*core.ClaimEvent, error) {
	for _, event := range events {
		if err := core.ValidateEvent(event); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := r.now().UTC()
	store := r.backend.Store()
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, event := range events {
			if event.CreatedAt.IsZero() {
				event.CreatedAt = now
			}
			if event.ID == 0 {
				event.ID = core.EventID(event)
			}
			if err := store.TxUpsert(tx, event.ID, event); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, fmt.Errorf("failed to store events: %w", err)
	}
	return events, nil
}

// ListEvents returns a claim's events ordered by CreatedAt descending.
func (r *EventRepository) ListEvents(ctx context.Context, claimNumber string, limit int) ([]*core.ClaimEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := badgerhold.Where("ClaimNumber").Eq(claimNumber).Index("ClaimNumber").
		SortBy("CreatedAt", "ID").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var events []core.ClaimEvent
	if err := r.backend.Store().Find(&events, query); err != nil {
		return nil, fmt.Errorf("failed to list events for %s: %w", claimNumber, err)
	}

	results := make([]*core.ClaimEvent, len(events))
	for i := range events {
		results[i] = &events[i]
	}
	return results, nil
}
