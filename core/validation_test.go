package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateClaim(t *testing.T) {
	submitted := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name    string
		claim   *Claim
		wantErr error
	}{
		{
			name: "valid claim",
			claim: &Claim{
				ClaimNumber: "CLM-2025-1000",
				Status:      StatusSubmitted,
				Amount:      1200,
				SubmittedAt: submitted,
			},
			wantErr: nil,
		},
		{
			name: "denied claim without denial details",
			claim: &Claim{
				ClaimNumber: "CLM-2025-1001",
				Status:      StatusDenied,
			},
			wantErr: nil,
		},
		{
			name:    "nil claim",
			claim:   nil,
			wantErr: ErrInvalidClaim,
		},
		{
			name: "lower case claim number",
			claim: &Claim{
				ClaimNumber: "clm-2025-1000",
				Status:      StatusPaid,
			},
			wantErr: ErrInvalidClaimNumber,
		},
		{
			name: "claim number without year",
			claim: &Claim{
				ClaimNumber: "CLM-1003",
				Status:      StatusPaid,
			},
			wantErr: ErrInvalidClaimNumber,
		},
		{
			name: "unknown status",
			claim: &Claim{
				ClaimNumber: "CLM-2025-1000",
				Status:      Status("rejected"),
			},
			wantErr: ErrInvalidStatus,
		},
		{
			name: "upper case status is not canonical",
			claim: &Claim{
				ClaimNumber: "CLM-2025-1000",
				Status:      Status("DENIED"),
			},
			wantErr: ErrInvalidStatus,
		},
		{
			name: "negative amount",
			claim: &Claim{
				ClaimNumber: "CLM-2025-1000",
				Status:      StatusApproved,
				Amount:      -1,
			},
			wantErr: ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClaim(tt.claim)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateClaim() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateClaim() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateClaim() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidClaim) {
				t.Errorf("ValidateClaim() error = %v, should wrap ErrInvalidClaim", err)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *ClaimChunk
		wantErr error
	}{
		{
			name: "valid chunk",
			chunk: &ClaimChunk{
				ClaimNumber: "CLM-2025-1000",
				Text:        "Claim CLM-2025-1000.",
				Embedding:   []float32{0.1, 0.2},
			},
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name: "bad claim number",
			chunk: &ClaimChunk{
				ClaimNumber: "1000",
				Text:        "text",
				Embedding:   []float32{1},
			},
			wantErr: ErrInvalidClaimNumber,
		},
		{
			name: "empty text",
			chunk: &ClaimChunk{
				ClaimNumber: "CLM-2025-1000",
				Embedding:   []float32{1},
			},
			wantErr: ErrEmptyChunkText,
		},
		{
			name: "missing embedding",
			chunk: &ClaimChunk{
				ClaimNumber: "CLM-2025-1000",
				Text:        "text",
			},
			wantErr: ErrEmptyEmbedding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   *ClaimEvent
		wantErr error
	}{
		{
			name:  "valid event",
			event: &ClaimEvent{ClaimNumber: "CLM-2025-1000", Type: "status_change"},
		},
		{
			name:    "nil event",
			wantErr: ErrInvalidEvent,
		},
		{
			name:    "bad claim number",
			event:   &ClaimEvent{ClaimNumber: "clm-1", Type: "note"},
			wantErr: ErrInvalidClaimNumber,
		},
		{
			name:    "blank type",
			event:   &ClaimEvent{ClaimNumber: "CLM-2025-1000", Type: "  "},
			wantErr: ErrEmptyEventType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEvent(tt.event)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEvent() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEvent() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidClaimNumber(t *testing.T) {
	valid := []string{"CLM-2025-1000", "CLM-2024-123", "CLM-2025-100000"}
	invalid := []string{"", "CLM-25-1000", "CLM20251000", "clm-2025-1000", "CLM-2025-12", "XCLM-2025-1000"}

	for _, s := range valid {
		if !IsValidClaimNumber(s) {
			t.Errorf("IsValidClaimNumber(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClaimNumber(s) {
			t.Errorf("IsValidClaimNumber(%q) = true, want false", s)
		}
	}
}
