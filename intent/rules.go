package intent

import (
	"strings"
	"time"
)

// Rule is one entry in a Matcher's ordered rule list.
// The concrete types are StatusRule and TimeRule.
type Rule interface {
	matches(lower string) bool
}

// StatusRule sets the status filter when any phrase appears in the query.
type StatusRule struct {
	Phrases []string
	Status  StatusFilter
}

func (r StatusRule) matches(lower string) bool {
	return containsAny(lower, r.Phrases)
}

// TimeRule sets the time window when any phrase appears in the query.
// The window floor is now shifted back by Years and Months.
type TimeRule struct {
	Phrases []string
	Window  TimeWindow
	Years   int
	Months  int
}

func (r TimeRule) matches(lower string) bool {
	return containsAny(lower, r.Phrases)
}

// Floor returns the earliest submission time inside the window.
func (r TimeRule) Floor(now time.Time) time.Time {
	return now.AddDate(-r.Years, -r.Months, 0)
}

// DefaultRules returns the built-in rule list.
func DefaultRules() []Rule {
	return []Rule{
		StatusRule{Phrases: []string{"denied", "rejected"}, Status: StatusDenied},
		StatusRule{Phrases: []string{"approved"}, Status: StatusApproved},
		StatusRule{Phrases: []string{"pending", "in review", "under review"}, Status: StatusPending},
		TimeRule{Phrases: []string{"last year", "past year"}, Window: WindowLastYear, Years: 1},
		TimeRule{Phrases: []string{"last quarter", "past quarter"}, Window: WindowLastQuarter, Months: 3},
	}
}

// Matcher evaluates an ordered rule list against query text.
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	rules []Rule
}

// NewMatcher creates a matcher. With no rules it uses DefaultRules.
func NewMatcher(rules ...Rule) *Matcher {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Matcher{rules: append([]Rule(nil), rules...)}
}

// Detect parses text into an Intent relative to now.
func (m *Matcher) Detect(text string, now time.Time) Intent {
	var in Intent
	in.Identifier, _ = ExtractIdentifier(text)
	in.DenialInterest = DetectDenialInterest(text)

	lower := strings.ToLower(text)
	statusSet := false
	for _, rule := range m.rules {
		if !rule.matches(lower) {
			continue
		}
		switch r := rule.(type) {
		case StatusRule:
			if statusSet {
				continue
			}
			in.Status = r.Status
			statusSet = true
		case TimeRule:
			// last match wins
			in.Window = r.Window
			in.Since = r.Floor(now)
		}
	}
	return in
}
