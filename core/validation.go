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


package core

import (
	"fmt"
	"regexp"
	"strings"
)

var claimNumberPattern = regexp.MustCompile(`^CLM-\d{4}-\d{3,}$`)

// IsValidClaimNumber reports whether s is a canonical CLM-YYYY-NNNN claim number.
func IsValidClaimNumber(s string) bool {
	return claimNumberPattern.MatchString(s)
}

// ValidateClaim validates a Claim according to domain rules.
//
// Validation rules:
//   - ClaimNumber must be canonical (CLM-YYYY-NNNN, upper case)
//   - Status must be one of the known statuses
//   - Amount must not be negative
//
// NOT validated:
//   - Denial code/reason (optional even for denied claims)
//   - Timestamps (zero means unknown)
func ValidateClaim(claim *Claim) error {
	if claim == nil {
		return fmt.Errorf("%w: claim is nil", ErrInvalidClaim)
	}

	if !IsValidClaimNumber(claim.ClaimNumber) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidClaim, ErrInvalidClaimNumber, claim.ClaimNumber)
	}

	if !IsValidStatus(claim.Status) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidClaim, ErrInvalidStatus, claim.Status)
	}

	if claim.Amount < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidClaim, ErrNegativeAmount)
	}

	return nil
}

// ValidateChunk validates a ClaimChunk before it is stored.
func ValidateChunk(chunk *ClaimChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if !IsValidClaimNumber(chunk.ClaimNumber) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidChunk, ErrInvalidClaimNumber, chunk.ClaimNumber)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyEmbedding)
	}

	return nil
}

// IsValidStatus reports whether s is one of the canonical stored statuses.
func IsValidStatus(s Status) bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}

// ValidateEvent validates a ClaimEvent before it is stored.
func ValidateEvent(event *ClaimEvent) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidEvent)
	}

	if !IsValidClaimNumber(event.ClaimNumber) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidEvent, ErrInvalidClaimNumber, event.ClaimNumber)
	}

	if strings.TrimSpace(event.Type) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrEmptyEventType)
	}

	return nil
}
