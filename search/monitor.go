package search

import (
	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/intent"
	"github.com/poiesic/claimlens/ranking"
	"github.com/poiesic/claimlens/semantic"
)

// SearchMonitor provides hooks to observe how a query is answered.
// Implement this interface to trace intermediate steps and results.
type SearchMonitor interface {
	Start(query string)
	AfterIntent(in intent.Intent)
	AfterLookup(claimNumber string, claim *core.Claim)
	AfterTextSearch(candidates []*core.TextMatch)
	AfterRanking(result *ranking.Result)
	AfterSemanticSearch(result *semantic.Result)
	Finish(resp *Response)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterIntent(_ intent.Intent)            {}
func (n *noopMonitor) AfterLookup(_ string, _ *core.Claim)    {}
func (n *noopMonitor) AfterTextSearch(_ []*core.TextMatch)    {}
func (n *noopMonitor) AfterRanking(_ *ranking.Result)         {}
func (n *noopMonitor) AfterSemanticSearch(_ *semantic.Result) {}
func (n *noopMonitor) Finish(_ *Response)                     {}
