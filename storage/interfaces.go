package storage

import (
	"context"
	"time"

	"github.com/poiesic/claimlens/core"
)

// ClaimFilter narrows listing and text search results.
// Zero-valued fields do not filter.
type ClaimFilter struct {
	// Statuses restricts results to claims in any of the listed statuses.
	Statuses []core.Status
	// PolicyNumber restricts results to a single policy.
	PolicyNumber string
	// SubmittedAfter keeps claims submitted at or after this instant.
	SubmittedAfter time.Time
}

// IsZero reports whether the filter accepts every claim.
func (f ClaimFilter) IsZero() bool {
	return len(f.Statuses) == 0 && f.PolicyNumber == "" && f.SubmittedAfter.IsZero()
}

// Matches reports whether the claim passes the filter.
func (f ClaimFilter) Matches(c *core.Claim) bool {
	if c == nil {
		return false
	}
	if f.PolicyNumber != "" && c.PolicyNumber != f.PolicyNumber {
		return false
	}
	if !f.SubmittedAfter.IsZero() && c.SubmittedAt.Before(f.SubmittedAfter) {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, st := range f.Statuses {
		if c.Status == st {
			return true
		}
	}
	return false
}

// ClaimRepository is the authoritative claim record store.
// Implementations must be thread-safe and support concurrent access.
type ClaimRepository interface {
	// PutClaims inserts or replaces claims keyed by claim number.
	// Sets InsertedAt on first write and UpdatedAt on every write.
	// The full-text index is updated in the same transaction.
	PutClaims(ctx context.Context, claims ...*core.Claim) ([]*core.Claim, error)

	// GetClaim retrieves a single claim by claim number.
	// Returns ErrNotFound if the claim doesn't exist.
	GetClaim(ctx context.Context, claimNumber string) (*core.Claim, error)

	// GetClaims retrieves multiple claims by claim number.
	// Returns only the claims that exist (no error for missing claims).
	GetClaims(ctx context.Context, claimNumbers ...string) ([]*core.Claim, error)

	// ListClaims returns claims passing filter, newest submission first.
	// A limit <= 0 returns every match.
	ListClaims(ctx context.Context, filter ClaimFilter, limit int) ([]*core.Claim, error)

	// SearchText runs a full-text query over patient name, policy number,
	// notes and denial reason. Filter is applied before results are cut
	// to limit. Results are ordered by score descending, then claim number.
	SearchText(ctx context.Context, query string, filter ClaimFilter, limit int) ([]*core.TextMatch, error)

	// Close releases resources held by the repository.
	Close() error
}

// ChunkRepository stores the precomputed semantic chunks, one per claim.
type ChunkRepository interface {
	// PutChunks inserts or replaces chunks keyed by claim number.
	PutChunks(ctx context.Context, chunks ...*core.ClaimChunk) error

	// GetChunk retrieves the chunk for a claim.
	// Returns ErrNotFound if the claim has not been indexed.
	GetChunk(ctx context.Context, claimNumber string) (*core.ClaimChunk, error)

	// ListChunks returns every stored chunk.
	ListChunks(ctx context.Context) ([]*core.ClaimChunk, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}

// EventRepository stores the per-claim event timeline.
type EventRepository interface {
	// AddEvents validates and stores events. Sets CreatedAt if zero and
	// derives ID from the event content when unset. Re-adding an
	// identical event replaces it.
	AddEvents(ctx context.Context, events ...*core.ClaimEvent) ([]*core.ClaimEvent, error)

	// ListEvents returns up to limit events for a claim, newest first.
	// A limit <= 0 returns every event.
	ListEvents(ctx context.Context, claimNumber string, limit int) ([]*core.ClaimEvent, error)

	// Close releases resources held by the repository.
	Close() error
}

// AuditLog records one entry per answered query.
// Entries are append-only.
type AuditLog interface {
	// RecordQuery appends a query log entry. Sets CreatedAt if zero.
	RecordQuery(ctx context.Context, entry *core.QueryLog) error

	// RecentQueries returns up to limit entries, newest first.
	RecentQueries(ctx context.Context, limit int) ([]*core.QueryLog, error)

	// Close releases resources held by the log.
	Close() error
}
