package main

import (
	"fmt"
	"io"
	"time"

	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/intent"
	"github.com/poiesic/claimlens/ranking"
	"github.com/poiesic/claimlens/search"
	"github.com/poiesic/claimlens/semantic"
)

// traceMonitor prints each stage of answering a query.
type traceMonitor struct {
	w     io.Writer
	start time.Time
}

var _ search.SearchMonitor = (*traceMonitor)(nil)

func newTraceMonitor(w io.Writer) *traceMonitor {
	return &traceMonitor{w: w}
}

func (t *traceMonitor) printf(format string, args ...any) {
	fmt.Fprintf(t.w, "[%6.1fms] ", float64(time.Since(t.start).Microseconds())/1000)
	fmt.Fprintf(t.w, format, args...)
	fmt.Fprintln(t.w)
}

func (t *traceMonitor) Start(query string) {
	t.start = time.Now()
	t.printf("query: %q", query)
}

func (t *traceMonitor) AfterIntent(in intent.Intent) {
	if in.HasIdentifier() {
		t.printf("intent: claim number %s", in.Identifier)
		return
	}
	since := "-"
	if !in.Since.IsZero() {
		since = in.Since.Format(time.DateOnly)
	}
	t.printf("intent: status=%q window=%q since=%s denial_interest=%v",
		in.Status, in.Window, since, in.DenialInterest)
}

func (t *traceMonitor) AfterLookup(claimNumber string, claim *core.Claim) {
	if claim == nil {
		t.printf("lookup %s: not found", claimNumber)
		return
	}
	t.printf("lookup %s: %s", claimNumber, claim.Status)
}

func (t *traceMonitor) AfterTextSearch(candidates []*core.TextMatch) {
	t.printf("text search: %d candidates", len(candidates))
	for i, m := range candidates {
		if i == 5 {
			t.printf("  ...")
			break
		}
		t.printf("  %s score=%.3f", m.Claim.ClaimNumber, m.Score)
	}
}

func (t *traceMonitor) AfterRanking(result *ranking.Result) {
	t.printf("ranking: %d items, confidence %.2f (%s)", len(result.Items), result.Confidence, result.Level)
	for _, item := range result.Items {
		f := item.Features
		t.printf("  %s total=%.3f text=%.3f claim=%v policy=%v denied=%v recent=%v",
			item.Claim.ClaimNumber, item.TotalScore, item.TextScore,
			f.ExactClaimMatch, f.ExactPolicyMatch, f.IsDenied, f.RecencyBoost)
	}
}

func (t *traceMonitor) AfterSemanticSearch(result *semantic.Result) {
	if result == nil {
		t.printf("semantic search: no index")
		return
	}
	t.printf("semantic search: %d of %d chunks, top similarity %.3f",
		len(result.Items), result.ChunkCount, result.Confidence)
	if result.DimensionMismatches > 0 || result.StaleModelChunks > 0 {
		t.printf("  dimension mismatches=%d stale model chunks=%d",
			result.DimensionMismatches, result.StaleModelChunks)
	}
}

func (t *traceMonitor) Finish(resp *search.Response) {
	if resp == nil {
		return
	}
	t.printf("done: type=%q confidence=%.2f latency=%dms", resp.Type, resp.Confidence, resp.LatencyMS)
}
