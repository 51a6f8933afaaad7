package intent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/claimlens/core"
)

func TestExtractIdentifier(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{name: "canonical", text: "CLM-2025-1000", want: "CLM-2025-1000", wantOK: true},
		{name: "embedded in sentence", text: "what happened to CLM-2025-1000?", want: "CLM-2025-1000", wantOK: true},
		{name: "lower case without hyphens", text: "status of clm20251000", want: "CLM-2025-1000", wantOK: true},
		{name: "mixed hyphens", text: "Clm-20251234 please", want: "CLM-2025-1234", wantOK: true},
		{name: "first of several", text: "CLM-2024-555 and CLM-2025-777", want: "CLM-2024-555", wantOK: true},
		{name: "missing year", text: "CLM-1003", wantOK: false},
		{name: "inside a word", text: "XCLM-2025-1000", wantOK: false},
		{name: "empty", text: "", wantOK: false},
		{name: "no identifier", text: "denied claims last quarter", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractIdentifier(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				assert.True(t, core.IsValidClaimNumber(got))
			}
		})
	}
}

func TestDetectDenialInterest(t *testing.T) {
	assert.True(t, DetectDenialInterest("Why was my claim DENIED?"))
	assert.True(t, DetectDenialInterest("denial reasons for MRI"))
	assert.False(t, DetectDenialInterest("approved pediatric claims"))
	assert.False(t, DetectDenialInterest(""))
}

func TestMatcher_Detect(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	m := NewMatcher()

	tests := []struct {
		name       string
		text       string
		wantStatus StatusFilter
		wantWindow TimeWindow
		wantSince  time.Time
		wantDenial bool
	}{
		{
			name:       "denied last quarter",
			text:       "show me denied claims last quarter",
			wantStatus: StatusDenied,
			wantWindow: WindowLastQuarter,
			wantSince:  time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
			wantDenial: true,
		},
		{
			name:       "rejected maps to denied",
			text:       "Rejected claims",
			wantStatus: StatusDenied,
		},
		{
			name:       "approved past year",
			text:       "approved claims in the past year",
			wantStatus: StatusApproved,
			wantWindow: WindowLastYear,
			wantSince:  time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name:       "under review is pending",
			text:       "claims under review",
			wantStatus: StatusPending,
		},
		{
			name:       "first status rule wins",
			text:       "approved or denied claims",
			wantStatus: StatusDenied,
			wantDenial: true,
		},
		{
			name:       "last time rule wins",
			text:       "last quarter versus last year",
			wantWindow: WindowLastQuarter,
			wantSince:  time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "no filters",
			text: "pediatric visit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Detect(tt.text, now)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantWindow, got.Window)
			assert.True(t, tt.wantSince.Equal(got.Since), "since = %v, want %v", got.Since, tt.wantSince)
			assert.Equal(t, tt.wantDenial, got.DenialInterest)
			assert.False(t, got.HasIdentifier())
		})
	}
}

func TestMatcher_DetectIdentifier(t *testing.T) {
	got := NewMatcher().Detect("why was CLM-2025-1000 denied", time.Now())
	assert.True(t, got.HasIdentifier())
	assert.Equal(t, "CLM-2025-1000", got.Identifier)
	assert.True(t, got.DenialInterest)
}

func TestMatcher_CustomRules(t *testing.T) {
	m := NewMatcher(
		TimeRule{Phrases: []string{"this month"}, Window: "LAST_MONTH", Months: 1},
		StatusRule{Phrases: []string{"paid"}, Status: StatusApproved},
	)
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	got := m.Detect("paid this month", now)
	assert.Equal(t, StatusApproved, got.Status)
	assert.Equal(t, TimeWindow("LAST_MONTH"), got.Window)
	assert.Equal(t, time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC), got.Since)

	got = m.Detect("denied claims", now)
	assert.Equal(t, StatusNone, got.Status, "default rules are replaced")
}

func TestStatusFilter_Statuses(t *testing.T) {
	assert.Equal(t, []core.Status{core.StatusDenied}, StatusDenied.Statuses())
	assert.Equal(t, []core.Status{core.StatusApproved}, StatusApproved.Statuses())
	assert.Equal(t, []core.Status{core.StatusSubmitted, core.StatusInReview}, StatusPending.Statuses())
	assert.Nil(t, StatusNone.Statuses())
}

func TestIntent_Filter(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	in := NewMatcher().Detect("pending claims last year", now)

	f := in.Filter()
	assert.Equal(t, []core.Status{core.StatusSubmitted, core.StatusInReview}, f.Statuses)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), f.SubmittedAfter)
	assert.Empty(t, f.PolicyNumber)

	assert.True(t, NewMatcher().Detect("pediatric", now).Filter().IsZero())
}
