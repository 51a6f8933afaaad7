package intent

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/storage"
)

// StatusFilter is the user-facing status requested in a query.
type StatusFilter string

const (
	StatusNone     StatusFilter = ""
	StatusDenied   StatusFilter = "DENIED"
	StatusApproved StatusFilter = "APPROVED"
	StatusPending  StatusFilter = "PENDING"
)

// Statuses maps the filter onto stored claim statuses.
// StatusNone maps to nil.
func (s StatusFilter) Statuses() []core.Status {
	switch s {
	case StatusDenied:
		return []core.Status{core.StatusDenied}
	case StatusApproved:
		return []core.Status{core.StatusApproved}
	case StatusPending:
		return []core.Status{core.StatusSubmitted, core.StatusInReview}
	default:
		return nil
	}
}

// TimeWindow names the submission window requested in a query.
type TimeWindow string

const (
	WindowNone        TimeWindow = ""
	WindowLastYear    TimeWindow = "LAST_YEAR"
	WindowLastQuarter TimeWindow = "LAST_QUARTER"
)

// Intent is the structured form of a query.
type Intent struct {
	// Identifier is the canonical claim number found in the text, if any.
	Identifier string
	Status     StatusFilter
	Window     TimeWindow
	// Since is the inclusive lower bound on submission time. Zero when
	// Window is WindowNone.
	Since time.Time
	// DenialInterest is a ranking boost signal, not a filter.
	DenialInterest bool
}

// HasIdentifier reports whether the query names a specific claim.
func (i Intent) HasIdentifier() bool {
	return i.Identifier != ""
}

// Filter converts the intent's hard filters into a store filter.
func (i Intent) Filter() storage.ClaimFilter {
	return storage.ClaimFilter{
		Statuses:       i.Status.Statuses(),
		SubmittedAfter: i.Since,
	}
}

var identifierPattern = regexp.MustCompile(`(?i)\bCLM-?(\d{4})-?(\d{3,})\b`)

// ExtractIdentifier finds the first claim number in text and returns it in
// canonical CLM-YYYY-NNNN form. Hyphens are optional in the input.
func ExtractIdentifier(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	m := identifierPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("CLM-%s-%s", m[1], m[2]), true
}

var denialPhrases = []string{
	"denied",
	"denial",
	"why was my claim denied",
	"why denied",
}

// DetectDenialInterest reports whether the query asks about denials.
func DetectDenialInterest(text string) bool {
	return containsAny(strings.ToLower(text), denialPhrases)
}

// containsAny checks if s contains any of the substrings.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
