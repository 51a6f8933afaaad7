package indexer

import (
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/claimlens/core"
)

// submittedLayout renders dates like "Tue Jan 14 2025".
const submittedLayout = "Mon Jan 02 2006"

// BuildChunkText renders the text embedded for a claim. Empty optional
// fields are left out; policy falls back to N/A.
func BuildChunkText(c *core.Claim) string {
	parts := []string{
		"Claim " + c.ClaimNumber + ".",
		"Policy " + orNA(c.PolicyNumber) + ".",
	}
	if c.Status != "" {
		parts = append(parts, "Status: "+string(c.Status)+".")
	}
	if d := c.Diagnosis(); d != "" {
		parts = append(parts, "Diagnosis: "+d+" ("+orNA(c.DiagnosisCode())+").")
	}
	if c.IsDenied() && c.DenialReason != "" {
		parts = append(parts, "Denial reason: "+c.DenialReason+".")
	}
	if p := c.Provider(); p != "" {
		parts = append(parts, "Provider: "+p+".")
	}
	if c.Amount != 0 {
		parts = append(parts, "Amount: "+strconv.FormatFloat(c.Amount, 'f', -1, 64)+".")
	}
	if !c.SubmittedAt.IsZero() {
		parts = append(parts, "Submitted on "+c.SubmittedAt.Format(submittedLayout)+".")
	}
	parts = append(parts, "Notes: "+c.Notes)
	return strings.Join(parts, " ")
}

// NewChunk assembles the stored chunk for a claim.
func NewChunk(c *core.Claim, text string, embedding []float32, model string, indexedAt time.Time) *core.ClaimChunk {
	return &core.ClaimChunk{
		ClaimNumber: c.ClaimNumber,
		Text:        text,
		Embedding:   embedding,
		Model:       model,
		Fingerprint: core.IDFromContent(text),
		Status:      c.Status,
		Diagnosis:   c.Diagnosis(),
		Provider:    c.Provider(),
		SubmittedAt: c.SubmittedAt,
		IndexedAt:   indexedAt,
	}
}

// IsCurrent reports whether chunk already holds an embedding of text made
// with model.
func IsCurrent(chunk *core.ClaimChunk, text, model string) bool {
	return chunk != nil &&
		len(chunk.Embedding) > 0 &&
		chunk.Model == model &&
		chunk.Fingerprint == core.IDFromContent(text)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
