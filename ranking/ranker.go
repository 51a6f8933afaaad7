package ranking

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/intent"
)

const millisPerDay = 86_400_000

// Features are the boolean ranking signals computed for one candidate.
type Features struct {
	ExactClaimMatch  bool `json:"exact_claim_match"`
	ExactPolicyMatch bool `json:"exact_policy_match"`
	IsDenied         bool `json:"is_denied"`
	RecencyBoost     bool `json:"recency_boost"`
	// DaysSinceSubmitted is zero when the claim has no submission date.
	DaysSinceSubmitted float64 `json:"days_since_submitted"`
}

// Item is a ranked claim.
type Item struct {
	Claim      *core.Claim
	TextScore  float64
	Features   Features
	TotalScore float64
	Confidence float64
	Level      Level
}

// Summary aggregates the ranked items.
type Summary struct {
	TotalClaims        int            `json:"total_claims"`
	TotalAmount        float64        `json:"total_amount"`
	StatusDistribution map[string]int `json:"status_distribution"`
}

// Result is the outcome of ranking a candidate set.
type Result struct {
	Items []*Item
	// Confidence and Level describe the top item; zero and LOW when empty.
	Confidence float64
	Level      Level
	Summary    Summary
}

// Ranker combines text relevance with business boosts.
// It is immutable and safe for concurrent use.
type Ranker struct {
	config Config
}

// NewRanker creates a ranker after validating config.
func NewRanker(config Config) (*Ranker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Ranker{config: config}, nil
}

// Config returns the ranker's configuration.
func (r *Ranker) Config() Config {
	return r.config
}

// Rank scores, orders and truncates candidates for query at time now.
// Nil candidates and candidates without a claim are ignored.
func (r *Ranker) Rank(query string, candidates []*core.TextMatch, now time.Time) *Result {
	trimmed := strings.ToUpper(strings.TrimSpace(query))
	deniedWeight := 0.0
	if intent.DetectDenialInterest(query) {
		deniedWeight = r.config.Weights.Denied
	}

	items := make([]*Item, 0, len(candidates))
	for _, cand := range candidates {
		if cand == nil || cand.Claim == nil {
			continue
		}
		f := r.features(trimmed, cand.Claim, now)
		items = append(items, &Item{
			Claim:      cand.Claim,
			TextScore:  cand.Score,
			Features:   f,
			TotalScore: r.total(cand.Score, f, deniedWeight),
		})
	}

	slices.SortFunc(items, compareItems)
	if len(items) > r.config.MaxResults {
		items = items[:r.config.MaxResults]
	}

	maxScore := 0.0
	for _, it := range items {
		if it.TotalScore > maxScore {
			maxScore = it.TotalScore
		}
	}
	for _, it := range items {
		it.Confidence = Normalize(it.TotalScore, maxScore)
		it.Level = LevelFor(it.Confidence)
	}

	res := &Result{Items: items, Level: LevelLow, Summary: Summarize(items)}
	if len(items) > 0 {
		res.Confidence = items[0].Confidence
		res.Level = items[0].Level
	}
	return res
}

func (r *Ranker) features(upperQuery string, c *core.Claim, now time.Time) Features {
	f := Features{
		ExactClaimMatch:  upperQuery != "" && strings.ToUpper(c.ClaimNumber) == upperQuery,
		ExactPolicyMatch: upperQuery != "" && c.PolicyNumber != "" && strings.ToUpper(c.PolicyNumber) == upperQuery,
		IsDenied:         c.IsDenied(),
	}
	if !c.SubmittedAt.IsZero() {
		f.DaysSinceSubmitted = float64(now.Sub(c.SubmittedAt).Milliseconds()) / millisPerDay
		f.RecencyBoost = f.DaysSinceSubmitted <= r.config.RecencyWindowDays
	}
	return f
}

func (r *Ranker) total(textScore float64, f Features, deniedWeight float64) float64 {
	w := r.config.Weights
	return textScore*w.Text +
		indicator(f.ExactClaimMatch)*w.ExactClaim +
		indicator(f.ExactPolicyMatch)*w.ExactPolicy +
		indicator(f.RecencyBoost)*w.Recency +
		indicator(f.IsDenied)*deniedWeight
}

// compareItems orders by total score, text score and submission time,
// all descending, then claim number ascending.
func compareItems(a, b *Item) int {
	if c := cmp.Compare(b.TotalScore, a.TotalScore); c != 0 {
		return c
	}
	if c := cmp.Compare(b.TextScore, a.TextScore); c != 0 {
		return c
	}
	if c := b.Claim.SubmittedAt.Compare(a.Claim.SubmittedAt); c != 0 {
		return c
	}
	return strings.Compare(a.Claim.ClaimNumber, b.Claim.ClaimNumber)
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Summarize aggregates claim count, total amount and a status histogram.
// Claims without a status are counted as UNKNOWN.
func Summarize(items []*Item) Summary {
	s := Summary{StatusDistribution: make(map[string]int)}
	for _, it := range items {
		if it == nil || it.Claim == nil {
			continue
		}
		s.TotalClaims++
		s.TotalAmount += it.Claim.Amount
		st := string(it.Claim.Status)
		if st == "" {
			st = core.StatusUnknown
		}
		s.StatusDistribution[st]++
	}
	return s
}
