package core

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Status is the processing state of a claim.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusInReview  Status = "in_review"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusPaid      Status = "paid"
)

// StatusUnknown is displayed when a claim carries no status.
const StatusUnknown = "UNKNOWN"

// Statuses lists every valid claim status.
var Statuses = []Status{
	StatusSubmitted,
	StatusInReview,
	StatusApproved,
	StatusDenied,
	StatusPaid,
}

// ParseStatus normalizes a status string. Returns false for unknown values.
func ParseStatus(s string) (Status, bool) {
	normalized := Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_"))
	for _, st := range Statuses {
		if st == normalized {
			return st, true
		}
	}
	return "", false
}

// Claim is the canonical insurance claim record.
type Claim struct {
	ClaimNumber  string            `json:"claim_number"`
	PatientName  string            `json:"patient_name"`
	PolicyNumber string            `json:"policy_number"`
	Status       Status            `json:"status"`
	Amount       float64           `json:"amount"`
	SubmittedAt  time.Time         `json:"submitted_at"`
	ProcessedAt  time.Time         `json:"processed_at"`
	DenialCode   string            `json:"denial_code,omitempty"`
	DenialReason string            `json:"denial_reason,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	InsertedAt   time.Time         `json:"-"`
	UpdatedAt    time.Time         `json:"-"`
}

// IsDenied reports whether the claim was denied.
func (c *Claim) IsDenied() bool {
	return c != nil && c.Status == StatusDenied
}

// Provider returns the provider recorded in the claim metadata, if any.
func (c *Claim) Provider() string {
	if c == nil || c.Metadata == nil {
		return ""
	}
	return c.Metadata["provider"]
}

// Diagnosis returns the diagnosis recorded in the claim metadata, if any.
func (c *Claim) Diagnosis() string {
	if c == nil || c.Metadata == nil {
		return ""
	}
	return c.Metadata["diagnosis"]
}

// DiagnosisCode returns the diagnosis code recorded in the claim metadata, if any.
func (c *Claim) DiagnosisCode() string {
	if c == nil || c.Metadata == nil {
		return ""
	}
	return c.Metadata["diagnosis_code"]
}

// ClaimChunk is the semantic search unit derived from one claim.
// Snapshot fields are frozen at index time and only used when the
// parent claim can no longer be found.
type ClaimChunk struct {
	ClaimNumber string
	Text        string
	Embedding   []float32
	Model       string // embedding model that produced Embedding
	Fingerprint ID     // IDFromContent(Text) at index time
	Status      Status
	Diagnosis   string
	Provider    string
	SubmittedAt time.Time
	IndexedAt   time.Time
}

// ClaimEvent is one entry in a claim's processing timeline, such as a
// status change or a reviewer note.
type ClaimEvent struct {
	ID          ID                `json:"id"`
	ClaimNumber string            `json:"claim_number" badgerhold:"index"`
	Type        string            `json:"event_type"`
	Data        map[string]string `json:"event_data,omitempty"`
	CreatedBy   string            `json:"created_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// EventID derives the storage key for an event from its claim, type,
// author and creation time.
func EventID(e *ClaimEvent) ID {
	return IDFromContent(fmt.Sprintf("%s|%s|%s|%d", e.ClaimNumber, e.Type, e.CreatedBy, e.CreatedAt.UnixNano()))
}

// TextMatch is a claim returned by full-text search with its raw relevance.
type TextMatch struct {
	Claim *Claim
	Score float64
}

// QueryLog is the audit record written once per query.
type QueryLog struct {
	Text          string
	Intent        string
	MatchedClaims []string
	ResponseText  string
	LatencyMS     int64
	Meta          map[string]any
	CreatedAt     time.Time
}
