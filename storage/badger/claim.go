package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/storage"
	"github.com/timshannon/badgerhold/v4"
)

// ClaimRepository implements storage.ClaimRepository for BadgerDB.
type ClaimRepository struct {
	backend *Backend
}

var _ storage.ClaimRepository = (*ClaimRepository)(nil)

// NewClaimRepository creates a new ClaimRepository.
func NewClaimRepository(backend *Backend) (*ClaimRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is nil", storage.ErrStorageClosed)
	}
	return &ClaimRepository{
		backend: backend,
	}, nil
}

// Close releases resources. ClaimRepository has no resources to release.
func (r *ClaimRepository) Close() error {
	return nil
}

// PutClaims inserts or replaces claims and their postings in one transaction.
func (r *ClaimRepository) PutClaims(ctx context.Context, claims ...*core.Claim) ([]*core.Claim, error) {
	for _, claim := range claims {
		if err := core.ValidateClaim(claim); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store := r.backend.Store()
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		stats, err := loadStats(tx)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, claim := range claims {
			var old core.Claim
			err := store.TxGet(tx, claim.ClaimNumber, &old)
			switch {
			case err == nil:
				if err := deletePostings(tx, &old, &stats); err != nil {
					return err
				}
				claim.InsertedAt = old.InsertedAt
			case errors.Is(err, badgerhold.ErrNotFound):
				claim.InsertedAt = now
			default:
				return err
			}
			claim.UpdatedAt = now

			if err := store.TxUpsert(tx, claim.ClaimNumber, claim); err != nil {
				return err
			}
			if err := writePostings(tx, claim, &stats); err != nil {
				return err
			}
		}

		if err := saveStats(tx, stats); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// GetClaim retrieves a single claim by claim number.
func (r *ClaimRepository) GetClaim(ctx context.Context, claimNumber string) (*core.Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var claim core.Claim
	if err := r.backend.Store().Get(claimNumber, &claim); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// GetClaims retrieves multiple claims by claim number, skipping missing ones.
func (r *ClaimRepository) GetClaims(ctx context.Context, claimNumbers ...string) ([]*core.Claim, error) {
	var results []*core.Claim
	store := r.backend.Store()
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, number := range claimNumbers {
			if err := ctx.Err(); err != nil {
				return err
			}
			var claim core.Claim
			err := store.TxGet(tx, number, &claim)
			if errors.Is(err, badgerhold.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			results = append(results, &claim)
		}
		return nil
	}, false)
	return results, err
}

// ListClaims returns claims passing filter, newest submission first.
func (r *ClaimRepository) ListClaims(ctx context.Context, filter storage.ClaimFilter, limit int) ([]*core.Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := badgerhold.Where("ClaimNumber").Ne("")
	if len(filter.Statuses) > 0 {
		query = query.And("Status").In(badgerhold.Slice(filter.Statuses)...)
	}
	if filter.PolicyNumber != "" {
		query = query.And("PolicyNumber").Eq(filter.PolicyNumber)
	}
	if !filter.SubmittedAfter.IsZero() {
		query = query.And("SubmittedAt").Ge(filter.SubmittedAfter)
	}
	query = query.SortBy("SubmittedAt", "ClaimNumber").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var claims []core.Claim
	if err := r.backend.Store().Find(&claims, query); err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}

	results := make([]*core.Claim, len(claims))
	for i := range claims {
		results[i] = &claims[i]
	}
	return results, nil
}

// SearchText scores claims with BM25 and applies filter before limit.
func (r *ClaimRepository) SearchText(ctx context.Context, query string, filter storage.ClaimFilter, limit int) ([]*core.TextMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty text query", storage.ErrInvalidQuery)
	}

	var matches []*core.TextMatch
	store := r.backend.Store()
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		scores, err := scoreQuery(tx, query)
		if err != nil {
			return err
		}

		matches = make([]*core.TextMatch, 0, len(scores))
		for number, score := range scores {
			if err := ctx.Err(); err != nil {
				return err
			}
			var claim core.Claim
			err := store.TxGet(tx, number, &claim)
			if errors.Is(err, badgerhold.ErrNotFound) {
				// Stale posting; the claim is gone.
				continue
			}
			if err != nil {
				return err
			}
			if !filter.Matches(&claim) {
				continue
			}
			matches = append(matches, &core.TextMatch{Claim: &claim, Score: score})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b *core.TextMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return strings.Compare(a.Claim.ClaimNumber, b.Claim.ClaimNumber)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
