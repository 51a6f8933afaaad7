package search

import (
	"time"

	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/intent"
	"github.com/poiesic/claimlens/ranking"
	"github.com/poiesic/claimlens/semantic"
)

// ResponseType tags the kind of answer in a Response.
type ResponseType string

const (
	TypeClaimStatus      ResponseType = "claim_status"
	TypeTextSearch       ResponseType = "text_search"
	TypeSemanticSearch   ResponseType = "semantic_search"
	TypeIndexUnavailable ResponseType = "index_unavailable"
)

// ErrorServer is the Error value of a response to an upstream failure.
const ErrorServer = "server_error"

// Audit intent labels.
const (
	IntentClaimLookup    = "claim_lookup"
	IntentTextSearch     = "text_search"
	IntentSemanticSearch = "semantic_search"
	IntentPrompt         = "prompt"
)

// Details is a claim with its newest events.
type Details struct {
	Claim  *core.Claim        `json:"claim"`
	Events []*core.ClaimEvent `json:"events"`
}

// Response is the envelope returned for every query.
type Response struct {
	Type            ResponseType     `json:"type,omitempty"`
	Text            string           `json:"text"`
	Claim           *core.Claim      `json:"claim,omitempty"`
	Items           []*Item          `json:"items,omitzero"`
	Confidence      float64          `json:"confidence"`
	ConfidenceLevel ranking.Level    `json:"confidence_level,omitempty"`
	Summary         *ranking.Summary `json:"summary,omitempty"`
	QueryHints      *QueryHints      `json:"query_hints,omitempty"`
	LatencyMS       int64            `json:"latency_ms"`
	Error           string           `json:"error,omitempty"`
}

// QueryHints echoes what the query was interpreted as.
type QueryHints struct {
	Status             intent.StatusFilter `json:"status,omitempty"`
	Time               intent.TimeWindow   `json:"time,omitempty"`
	SubmittedAfter     *time.Time          `json:"submitted_after,omitempty"`
	DenialInterest     bool                `json:"denial_interest,omitempty"`
	MatchedClaimNumber string              `json:"matched_claim_number,omitempty"`
}

// Item is one claim in a multi-claim answer. Lexical items carry score
// breakdowns; semantic items carry similarity and chunk text.
type Item struct {
	ClaimNumber     string            `json:"claim_number"`
	PatientName     string            `json:"patient_name,omitempty"`
	PolicyNumber    string            `json:"policy_number,omitempty"`
	Status          string            `json:"status"`
	Amount          float64           `json:"amount"`
	SubmittedAt     *time.Time        `json:"submitted_at,omitempty"`
	DenialCode      string            `json:"denial_code,omitempty"`
	DenialReason    string            `json:"denial_reason,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Diagnosis       string            `json:"diagnosis,omitempty"`
	DiagnosisCode   string            `json:"diagnosis_code,omitempty"`
	Provider        string            `json:"provider,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	TextScore       float64           `json:"text_score,omitempty"`
	TotalScore      float64           `json:"total_score,omitempty"`
	Features        *ranking.Features `json:"features,omitempty"`
	Similarity      float64           `json:"similarity,omitempty"`
	Text            string            `json:"text,omitempty"`
	Confidence      float64           `json:"confidence"`
	ConfidenceLevel ranking.Level     `json:"confidence_level"`
}

// ClaimNumbers returns the claim numbers of the response's items, or of
// its single claim.
func (r *Response) ClaimNumbers() []string {
	if r == nil {
		return nil
	}
	if r.Claim != nil {
		return []string{r.Claim.ClaimNumber}
	}
	numbers := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		numbers = append(numbers, it.ClaimNumber)
	}
	return numbers
}

func statusOrUnknown(s string) string {
	if s == "" {
		return core.StatusUnknown
	}
	return s
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func rankedItem(it *ranking.Item) *Item {
	c := it.Claim
	features := it.Features
	return &Item{
		ClaimNumber:     c.ClaimNumber,
		PatientName:     c.PatientName,
		PolicyNumber:    c.PolicyNumber,
		Status:          statusOrUnknown(string(c.Status)),
		Amount:          c.Amount,
		SubmittedAt:     timePtr(c.SubmittedAt),
		DenialCode:      c.DenialCode,
		DenialReason:    c.DenialReason,
		Notes:           c.Notes,
		Diagnosis:       c.Diagnosis(),
		DiagnosisCode:   c.DiagnosisCode(),
		Provider:        c.Provider(),
		Metadata:        c.Metadata,
		TextScore:       it.TextScore,
		TotalScore:      it.TotalScore,
		Features:        &features,
		Confidence:      it.Confidence,
		ConfidenceLevel: it.Level,
	}
}

func semanticItem(it *semantic.Item) *Item {
	item := &Item{
		ClaimNumber:     it.ClaimNumber,
		Status:          statusOrUnknown(it.Status),
		Amount:          it.Amount,
		SubmittedAt:     timePtr(it.SubmittedAt),
		DenialReason:    it.DenialReason,
		Diagnosis:       it.Diagnosis,
		DiagnosisCode:   it.DiagnosisCode,
		Provider:        it.Provider,
		Similarity:      it.Similarity,
		Text:            it.Text,
		Confidence:      it.Similarity,
		ConfidenceLevel: ranking.LevelFor(it.Similarity),
	}
	if it.Claim != nil {
		item.PatientName = it.Claim.PatientName
		item.PolicyNumber = it.Claim.PolicyNumber
		item.DenialCode = it.Claim.DenialCode
		item.Notes = it.Claim.Notes
		item.Metadata = it.Claim.Metadata
	}
	return item
}
