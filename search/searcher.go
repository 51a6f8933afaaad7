package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/intent"
	"github.com/poiesic/claimlens/ranking"
	"github.com/poiesic/claimlens/render"
	"github.com/poiesic/claimlens/resilience"
	"github.com/poiesic/claimlens/semantic"
	"github.com/poiesic/claimlens/storage"
)

const (
	// DefaultCandidateLimit scores every full-text match. Boosts are
	// computed over the whole filtered set before truncation.
	DefaultCandidateLimit = 0

	// DefaultListLimit is the List page size when none is given.
	DefaultListLimit = 50

	// MaxListLimit caps the List page size.
	MaxListLimit = 200

	// DetailsEventLimit caps the events returned by Details.
	DetailsEventLimit = 100

	minQueryLength = 2
)

// Searcher answers natural-language claim queries.
// It is safe for concurrent use; each query is independent.
type Searcher struct {
	claims         storage.ClaimRepository
	renderer       *render.Renderer
	ranker         *ranking.Ranker
	retriever      *semantic.Retriever
	matcher        *intent.Matcher
	audit          storage.AuditLog
	events         storage.EventRepository
	policy         resilience.Policy
	candidateLimit int
	now            func() time.Time
	logger         *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithRetriever enables Semantic.
func WithRetriever(retriever *semantic.Retriever) Option {
	return func(s *Searcher) error {
		s.retriever = retriever
		return nil
	}
}

// WithAuditLog records every answered query.
func WithAuditLog(audit storage.AuditLog) Option {
	return func(s *Searcher) error {
		s.audit = audit
		return nil
	}
}

// WithEventRepository supplies the event timeline for Details.
func WithEventRepository(events storage.EventRepository) Option {
	return func(s *Searcher) error {
		s.events = events
		return nil
	}
}

// WithMatcher replaces the intent rules.
// Default is intent.NewMatcher().
func WithMatcher(matcher *intent.Matcher) Option {
	return func(s *Searcher) error {
		if matcher != nil {
			s.matcher = matcher
		}
		return nil
	}
}

// WithRetryPolicy sets the retry policy for store reads.
// Default is resilience.DefaultPolicy().
func WithRetryPolicy(policy resilience.Policy) Option {
	return func(s *Searcher) error {
		s.policy = policy
		return nil
	}
}

// WithCandidateLimit bounds the full-text candidates scored per query.
// Candidates are cut by text score alone before the recency, denial and
// policy boosts apply, so a positive limit gives an approximate ranking.
// Zero scores every match. Default is DefaultCandidateLimit.
func WithCandidateLimit(limit int) Option {
	return func(s *Searcher) error {
		if limit < 0 {
			return fmt.Errorf("candidate limit must not be negative, got %d", limit)
		}
		s.candidateLimit = limit
		return nil
	}
}

// WithClock overrides the time source used for time windows, recency
// and latency.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	claims storage.ClaimRepository,
	renderer *render.Renderer,
	ranker *ranking.Ranker,
	opts ...Option,
) (*Searcher, error) {
	if claims == nil {
		return nil, ErrClaimRepositoryRequired
	}
	if renderer == nil {
		return nil, ErrRendererRequired
	}
	if ranker == nil {
		return nil, ErrRankerRequired
	}

	s := &Searcher{
		claims:         claims,
		renderer:       renderer,
		ranker:         ranker,
		matcher:        intent.NewMatcher(),
		policy:         resilience.DefaultPolicy(),
		candidateLimit: DefaultCandidateLimit,
		now:            time.Now,
		logger:         slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Ask answers a free-text query.
// Upstream failures return a server error envelope together with an error
// wrapping ErrUpstream.
func (s *Searcher) Ask(ctx context.Context, text string) (*Response, error) {
	return s.AskWithMonitor(ctx, text, nil)
}

// AskWithMonitor answers a free-text query with monitoring.
// The monitor receives callbacks at each stage.
func (s *Searcher) AskWithMonitor(ctx context.Context, text string, monitor SearchMonitor) (*Response, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	start := s.now()
	monitor.Start(text)

	in := s.matcher.Detect(text, start)
	monitor.AfterIntent(in)

	if in.HasIdentifier() {
		resp, err := s.lookup(ctx, in.Identifier, monitor)
		return s.finish(ctx, text, IntentClaimLookup, start, resp, err, nil, monitor)
	}

	if len(strings.TrimSpace(text)) < minQueryLength {
		resp, err := s.prompt()
		return s.finish(ctx, text, IntentPrompt, start, resp, err, nil, monitor)
	}

	resp, err := s.textSearch(ctx, text, in, start, monitor)
	return s.finish(ctx, text, IntentTextSearch, start, resp, err, nil, monitor)
}

// Lookup answers for a single claim number. The number may be in any
// accepted spelling (for example clm20251000).
func (s *Searcher) Lookup(ctx context.Context, claimNumber string) (*Response, error) {
	monitor := &noopMonitor{}
	start := s.now()
	monitor.Start(claimNumber)

	number, ok := intent.ExtractIdentifier(claimNumber)
	if !ok {
		resp, err := s.notFound(strings.TrimSpace(claimNumber))
		return s.finish(ctx, claimNumber, IntentClaimLookup, start, resp, err, nil, monitor)
	}

	resp, err := s.lookup(ctx, number, monitor)
	return s.finish(ctx, claimNumber, IntentClaimLookup, start, resp, err, nil, monitor)
}

// Semantic answers a query from the embedding index.
func (s *Searcher) Semantic(ctx context.Context, text string) (*Response, error) {
	return s.SemanticWithMonitor(ctx, text, nil)
}

// SemanticWithMonitor answers a query from the embedding index with monitoring.
func (s *Searcher) SemanticWithMonitor(ctx context.Context, text string, monitor SearchMonitor) (*Response, error) {
	if s.retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	start := s.now()
	monitor.Start(text)

	if strings.TrimSpace(text) == "" {
		resp, err := s.prompt()
		return s.finish(ctx, text, IntentPrompt, start, resp, err, nil, monitor)
	}

	res, err := s.retriever.Retrieve(ctx, text)
	if errors.Is(err, semantic.ErrIndexUnavailable) {
		resp, rerr := s.answer(TypeIndexUnavailable, render.KeyIndexUnavailable, nil)
		if resp != nil {
			resp.Items = []*Item{}
		}
		return s.finish(ctx, text, IntentSemanticSearch, start, resp, rerr, map[string]any{"index": "unavailable"}, monitor)
	}
	if err != nil {
		s.logger.Error("error running semantic retrieval", "query", text, "err", err)
		resp, ferr := s.fail(upstream(err))
		return s.finish(ctx, text, IntentSemanticSearch, start, resp, ferr, nil, monitor)
	}
	monitor.AfterSemanticSearch(res)

	meta := map[string]any{
		"chunks":               res.ChunkCount,
		"dimension_mismatches": res.DimensionMismatches,
		"stale_model_chunks":   res.StaleModelChunks,
	}

	if len(res.Items) == 0 {
		resp, err := s.answer(TypeSemanticSearch, render.KeyNoSemanticMatches, nil)
		if resp != nil {
			resp.Items = []*Item{}
		}
		return s.finish(ctx, text, IntentSemanticSearch, start, resp, err, meta, monitor)
	}

	items := make([]*Item, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, semanticItem(it))
	}

	resp, err := s.answer(TypeSemanticSearch, render.KeySemanticMatches, map[string]any{
		"count":          len(items),
		"top_similarity": fmt.Sprintf("%.2f", res.Confidence),
	})
	if resp != nil {
		resp.Items = items
		resp.Confidence = res.Confidence
		resp.ConfidenceLevel = ranking.LevelFor(res.Confidence)
	}
	return s.finish(ctx, text, IntentSemanticSearch, start, resp, err, meta, monitor)
}

// Details returns a claim and up to DetailsEventLimit of its events,
// newest first. claimNumber may be in any accepted spelling. A missing
// claim returns an error wrapping storage.ErrNotFound. Without an event
// repository the event list is empty.
func (s *Searcher) Details(ctx context.Context, claimNumber string) (*Details, error) {
	number, ok := intent.ExtractIdentifier(claimNumber)
	if !ok {
		return nil, fmt.Errorf("%w: %q", storage.ErrNotFound, strings.TrimSpace(claimNumber))
	}

	var claim *core.Claim
	err := s.policy.Do(ctx, func() error {
		c, err := s.claims.GetClaim(ctx, number)
		if errors.Is(err, storage.ErrNotFound) {
			return resilience.Permanent(err)
		}
		claim = c
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, number)
	}
	if err != nil {
		s.logger.Error("error loading claim details", "claimNumber", number, "err", err)
		return nil, upstream(err)
	}

	details := &Details{Claim: claim, Events: []*core.ClaimEvent{}}
	if s.events == nil {
		return details, nil
	}

	err = s.policy.Do(ctx, func() error {
		events, err := s.events.ListEvents(ctx, number, DetailsEventLimit)
		if err != nil {
			return err
		}
		details.Events = events
		return nil
	})
	if err != nil {
		s.logger.Error("error loading claim events", "claimNumber", number, "err", err)
		return nil, upstream(err)
	}
	return details, nil
}

// ListOptions filters List.
type ListOptions struct {
	PolicyNumber string
	// Status is a stored status (e.g. "in_review") or a query status
	// filter name (DENIED, APPROVED, PENDING).
	Status string
	// Limit is the page size: 0 means DefaultListLimit, values above
	// MaxListLimit are capped.
	Limit int
}

// List returns claims matching opts, newest submission first.
func (s *Searcher) List(ctx context.Context, opts ListOptions) ([]*core.Claim, error) {
	if opts.Limit < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidListLimit, opts.Limit)
	}
	limit := opts.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	filter := storage.ClaimFilter{PolicyNumber: strings.TrimSpace(opts.PolicyNumber)}
	if opts.Status != "" {
		statuses, err := parseListStatus(opts.Status)
		if err != nil {
			return nil, err
		}
		filter.Statuses = statuses
	}

	var claims []*core.Claim
	err := s.policy.Do(ctx, func() error {
		var err error
		claims, err = s.claims.ListClaims(ctx, filter, limit)
		return err
	})
	if err != nil {
		s.logger.Error("error listing claims", "policy", filter.PolicyNumber, "err", err)
		return nil, upstream(err)
	}
	return claims, nil
}

func parseListStatus(value string) ([]core.Status, error) {
	if st, ok := core.ParseStatus(value); ok {
		return []core.Status{st}, nil
	}
	if statuses := intent.StatusFilter(strings.ToUpper(strings.TrimSpace(value))).Statuses(); statuses != nil {
		return statuses, nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrInvalidStatus, value)
}

func (s *Searcher) lookup(ctx context.Context, number string, monitor SearchMonitor) (*Response, error) {
	var claim *core.Claim
	err := s.policy.Do(ctx, func() error {
		c, err := s.claims.GetClaim(ctx, number)
		if errors.Is(err, storage.ErrNotFound) {
			return resilience.Permanent(err)
		}
		claim = c
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		monitor.AfterLookup(number, nil)
		return s.notFound(number)
	}
	if err != nil {
		s.logger.Error("error looking up claim", "claimNumber", number, "err", err)
		return s.fail(upstream(err))
	}
	monitor.AfterLookup(number, claim)

	text, err := s.renderer.ClaimAnswer(claim)
	if err != nil {
		s.logger.Error("error rendering claim answer", "claimNumber", number, "err", err)
		return s.fail(err)
	}

	return &Response{
		Type:            TypeClaimStatus,
		Text:            text,
		Claim:           claim,
		Confidence:      1.0,
		ConfidenceLevel: ranking.LevelHigh,
		QueryHints:      &QueryHints{MatchedClaimNumber: claim.ClaimNumber},
	}, nil
}

func (s *Searcher) notFound(number string) (*Response, error) {
	resp, err := s.answer("", render.KeyNotFound, map[string]any{"claim_number": number})
	if resp != nil {
		resp.QueryHints = &QueryHints{MatchedClaimNumber: number}
	}
	return resp, err
}

func (s *Searcher) prompt() (*Response, error) {
	return s.answer("", render.KeyPrompt, nil)
}

func (s *Searcher) textSearch(ctx context.Context, text string, in intent.Intent, now time.Time, monitor SearchMonitor) (*Response, error) {
	filter := in.Filter()

	var candidates []*core.TextMatch
	err := s.policy.Do(ctx, func() error {
		var err error
		candidates, err = s.claims.SearchText(ctx, text, filter, s.candidateLimit)
		if errors.Is(err, storage.ErrInvalidQuery) {
			return resilience.Permanent(err)
		}
		return err
	})
	if errors.Is(err, storage.ErrInvalidQuery) {
		candidates, err = nil, nil
	}
	if err != nil {
		s.logger.Error("error running text search", "query", text, "err", err)
		return s.fail(upstream(err))
	}
	monitor.AfterTextSearch(candidates)

	result := s.ranker.Rank(text, candidates, now)
	monitor.AfterRanking(result)

	hints := &QueryHints{
		Status:         in.Status,
		Time:           in.Window,
		SubmittedAfter: timePtr(in.Since),
		DenialInterest: in.DenialInterest,
	}

	if len(result.Items) == 0 {
		resp, err := s.answer(TypeTextSearch, render.KeyNoMatches, nil)
		if resp != nil {
			resp.Items = []*Item{}
			resp.QueryHints = hints
		}
		return resp, err
	}

	items := make([]*Item, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, rankedItem(it))
	}

	resp, err := s.answer(TypeTextSearch, render.KeyMultipleMatches, map[string]any{
		"count": len(items),
		"top":   min(len(items), s.ranker.Config().MaxResults),
	})
	if resp == nil {
		return resp, err
	}
	summary := result.Summary
	resp.Items = items
	resp.Confidence = result.Confidence
	resp.ConfidenceLevel = result.Level
	resp.Summary = &summary
	resp.QueryHints = hints
	return resp, err
}

// answer renders key into a zero-confidence response.
func (s *Searcher) answer(typ ResponseType, key string, fields map[string]any) (*Response, error) {
	text, err := s.renderer.Render(key, fields)
	if err != nil {
		s.logger.Error("error rendering answer", "template", key, "err", err)
		return s.fail(err)
	}
	return &Response{
		Type:            typ,
		Text:            text,
		Confidence:      0,
		ConfidenceLevel: ranking.LevelLow,
	}, nil
}

// fail builds the server error envelope returned alongside err.
func (s *Searcher) fail(err error) (*Response, error) {
	text, rerr := s.renderer.Render(render.KeyServerError, nil)
	if rerr != nil {
		text = ErrorServer
	}
	return &Response{
		Text:            text,
		Confidence:      0,
		ConfidenceLevel: ranking.LevelLow,
		Error:           ErrorServer,
	}, err
}

func upstream(err error) error {
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}

// finish stamps latency, writes the audit entry and notifies the monitor.
func (s *Searcher) finish(
	ctx context.Context,
	query, label string,
	start time.Time,
	resp *Response,
	err error,
	meta map[string]any,
	monitor SearchMonitor,
) (*Response, error) {
	if resp != nil {
		resp.LatencyMS = max(0, s.now().Sub(start).Milliseconds())
	}
	s.record(ctx, query, label, resp, err, meta)
	monitor.Finish(resp)
	return resp, err
}

// record appends the query to the audit log. Failures are logged, never
// retried, and never change the response.
func (s *Searcher) record(ctx context.Context, query, label string, resp *Response, err error, meta map[string]any) {
	if s.audit == nil {
		return
	}

	entry := &core.QueryLog{
		Text:      query,
		Intent:    label,
		Meta:      meta,
		CreatedAt: s.now(),
	}
	if resp != nil {
		entry.MatchedClaims = resp.ClaimNumbers()
		entry.ResponseText = resp.Text
		entry.LatencyMS = resp.LatencyMS
		if resp.QueryHints != nil {
			entry.Meta = withMeta(entry.Meta, "query_hints", resp.QueryHints)
		}
		entry.Meta = withMeta(entry.Meta, "confidence", resp.Confidence)
	}
	if err != nil {
		entry.Meta = withMeta(entry.Meta, "error", err.Error())
	}

	// The audit write outlives a cancelled request.
	if werr := s.audit.RecordQuery(context.WithoutCancel(ctx), entry); werr != nil {
		s.logger.Warn("failed to record query", "intent", label, "err", werr)
	}
}

func withMeta(meta map[string]any, key string, value any) map[string]any {
	if meta == nil {
		meta = make(map[string]any)
	}
	meta[key] = value
	return meta
}
