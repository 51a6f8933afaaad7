package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/claimlens/core"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(DefaultConfig())
	require.NoError(t, err)
	return r
}

func TestRenderer_ClaimAnswer(t *testing.T) {
	r := newTestRenderer(t)
	submitted := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		claim *core.Claim
		want  string
	}{
		{
			name: "status template",
			claim: &core.Claim{
				ClaimNumber:  "CLM-2025-1001",
				PatientName:  "Asha Rao",
				PolicyNumber: "POL-200",
				Status:       core.StatusApproved,
				Amount:       1200.5,
				SubmittedAt:  submitted,
			},
			want: "Claim CLM-2025-1001 for Asha Rao is *approved* (₹1,200.50). Submitted on 1/15/2025. Policy: POL-200.",
		},
		{
			name: "denial template",
			claim: &core.Claim{
				ClaimNumber:  "CLM-2025-1000",
				Status:       core.StatusDenied,
				DenialCode:   "D-101",
				DenialReason: "Pre-authorization missing",
				Notes:        "MRI of lower back & spine",
				Metadata:     map[string]string{"provider": "City Hospital"},
			},
			want: "Claim CLM-2025-1000 was denied (D-101): Pre-authorization missing. Provider: City Hospital. Notes: MRI of lower back & spine",
		},
		{
			name: "denial with missing optional fields",
			claim: &core.Claim{
				ClaimNumber: "CLM-2025-1002",
				Status:      core.StatusDenied,
			},
			want: "Claim CLM-2025-1002 was denied (): . Provider: . Notes: ",
		},
		{
			name: "status template with empty status and date",
			claim: &core.Claim{
				ClaimNumber: "CLM-2025-1003",
			},
			want: "Claim CLM-2025-1003 for  is *UNKNOWN* (₹0.00). Submitted on . Policy: .",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ClaimAnswer(tt.claim)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_ClaimAnswerNil(t *testing.T) {
	r := newTestRenderer(t)
	got, err := r.ClaimAnswer(nil)
	require.NoError(t, err)
	assert.Contains(t, got, "*UNKNOWN*")
}

func TestRenderer_Render(t *testing.T) {
	r := newTestRenderer(t)

	got, err := r.Render(KeyNotFound, map[string]any{"claim_number": "CLM-2025-9999"})
	require.NoError(t, err)
	assert.Equal(t, "No claim found with number CLM-2025-9999.", got)

	got, err = r.Render(KeyMultipleMatches, map[string]any{"count": 5, "top": 5})
	require.NoError(t, err)
	assert.Equal(t, "I found 5 claims matching your query. Showing top 5 results.", got)

	got, err = r.Render(KeyPrompt, nil)
	require.NoError(t, err)
	assert.Equal(t, "Please enter a claim number or a few keywords.", got)

	_, err = r.Render("nope", nil)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestNew_Overrides(t *testing.T) {
	r, err := New(Config{
		Templates:      map[string]string{KeyPrompt: "Type something, {{name}}."},
		CurrencySymbol: "$",
		DateLayout:     "2006-01-02",
	})
	require.NoError(t, err)

	got, err := r.Render(KeyPrompt, map[string]any{"name": "Sam"})
	require.NoError(t, err)
	assert.Equal(t, "Type something, Sam.", got)

	// untouched keys keep the built-in text
	got, err = r.Render(KeyNoSemanticMatches, nil)
	require.NoError(t, err)
	assert.Equal(t, "No semantically relevant claims found.", got)

	assert.Equal(t, "$15.00", r.Currency(15))
	assert.Equal(t, "2025-03-04", r.Date(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Config{Templates: map[string]string{KeyPrompt: "{{#open}}"}})
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	_, err = New(Config{Language: "not a tag!"})
	assert.ErrorIs(t, err, ErrInvalidLanguage)
}

func TestRenderer_Date(t *testing.T) {
	r := newTestRenderer(t)
	assert.Equal(t, "", r.Date(time.Time{}))
	assert.Equal(t, "12/31/2024", r.Date(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)))
}

func TestDefaultTemplates_ReturnsCopy(t *testing.T) {
	a := DefaultTemplates()
	a[KeyPrompt] = "changed"
	assert.NotEqual(t, "changed", DefaultTemplates()[KeyPrompt])
}
