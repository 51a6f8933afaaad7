// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package indexer

import (
	"context"

	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/storage"
)

const (
	// DefaultBatchSize is the default number of claims embedded per call
	DefaultBatchSize = 100
)

// ClaimIterator walks stored claims, newest submission first, in batches.
type ClaimIterator struct {
	repo      storage.ClaimRepository
	batchSize int
	limit     int
}

// NewClaimIterator creates a new claim iterator.
// batchSize: number of claims per batch (defaults to DefaultBatchSize when <= 0)
// limit: most recent claims to visit, 0 for all
func NewClaimIterator(repo storage.ClaimRepository, batchSize, limit int) *ClaimIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if limit < 0 {
		limit = 0
	}

	return &ClaimIterator{
		repo:      repo,
		batchSize: batchSize,
		limit:     limit,
	}
}

// Claims loads the claims the iterator visits.
func (it *ClaimIterator) Claims(ctx context.Context) ([]*core.Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return it.repo.ListClaims(ctx, storage.ClaimFilter{}, it.limit)
}

// Batches splits claims into batches of the iterator's batch size.
func (it *ClaimIterator) Batches(claims []*core.Claim) [][]*core.Claim {
	batches := make([][]*core.Claim, 0, (len(claims)+it.batchSize-1)/it.batchSize)
	for i := 0; i < len(claims); i += it.batchSize {
		end := min(i+it.batchSize, len(claims))
		batches = append(batches, claims[i:end])
	}
	return batches
}

// ForEach calls fn for each batch in order.
// Iteration stops on first error from fn or when all claims are processed.
// Context cancellation is checked between batches.
func (it *ClaimIterator) ForEach(ctx context.Context, fn func([]*core.Claim) error) error {
	claims, err := it.Claims(ctx)
	if err != nil {
		return err
	}

	for _, batch := range it.Batches(claims) {
		if err := fn(batch); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
