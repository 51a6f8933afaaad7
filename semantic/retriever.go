package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/claimlens/ai"
	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/resilience"
	"github.com/poiesic/claimlens/storage"
)

// DefaultTopK is the number of chunks returned when not configured.
const DefaultTopK = 15

// Item is a semantic hit joined with its parent claim.
// Live claim values are preferred; snapshot values from the chunk are used
// when the claim no longer exists or leaves a field empty.
type Item struct {
	ClaimNumber   string      `json:"claim_number"`
	Claim         *core.Claim `json:"-"`
	Status        string      `json:"status"`
	Diagnosis     string      `json:"diagnosis,omitempty"`
	DiagnosisCode string      `json:"diagnosis_code,omitempty"`
	Provider      string      `json:"provider,omitempty"`
	DenialReason  string      `json:"denial_reason,omitempty"`
	Amount        float64     `json:"amount"`
	SubmittedAt   time.Time   `json:"submitted_at"`
	Similarity    float64     `json:"similarity"`
	Text          string      `json:"text"`
	// FromSnapshot is set when the parent claim was not found.
	FromSnapshot bool `json:"from_snapshot,omitempty"`
}

// Result is the outcome of a semantic retrieval.
type Result struct {
	Items []*Item
	// Confidence is the top similarity, 0 when there are no items.
	Confidence float64
	// ChunkCount is the size of the collection that was searched.
	ChunkCount int
	// DimensionMismatches counts chunks whose vector length differs from the query.
	DimensionMismatches int
	// StaleModelChunks counts chunks embedded with a different model.
	StaleModelChunks int
}

// Retriever embeds a query and ranks the chunk collection against it.
type Retriever struct {
	chunks   storage.ChunkRepository
	claims   storage.ClaimRepository
	embedder ai.Embedder
	model    string
	topK     int
	policy   resilience.Policy
	build    IndexBuilder
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithTopK sets the maximum number of items returned.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(r *Retriever) error {
		if k <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidTopK, k)
		}
		r.topK = k
		return nil
	}
}

// WithRetryPolicy sets the retry policy for store reads.
// Default is resilience.DefaultPolicy().
func WithRetryPolicy(policy resilience.Policy) Option {
	return func(r *Retriever) error {
		r.policy = policy
		return nil
	}
}

// WithIndexBuilder replaces the per-request index implementation.
// Default is BuildMemoryIndex.
func WithIndexBuilder(build IndexBuilder) Option {
	return func(r *Retriever) error {
		if build != nil {
			r.build = build
		}
		return nil
	}
}

// NewRetriever creates a retriever. The provider's model name is compared
// against the model recorded on each chunk.
func NewRetriever(
	chunks storage.ChunkRepository,
	claims storage.ClaimRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Retriever, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if claims == nil {
		return nil, ErrClaimRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Retriever{
		chunks:   chunks,
		claims:   claims,
		embedder: provider.Embedder(),
		model:    provider.Model(),
		topK:     DefaultTopK,
		policy:   resilience.DefaultPolicy(),
		build:    BuildMemoryIndex,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve ranks the chunk collection against query. Returns
// ErrIndexUnavailable, without calling the embedder, when no chunks exist.
func (r *Retriever) Retrieve(ctx context.Context, query string) (*Result, error) {
	var chunks []*core.ClaimChunk
	err := r.policy.Do(ctx, func() error {
		var err error
		chunks, err = r.chunks.ListChunks(ctx)
		return err
	})
	if err != nil {
		r.logger.Error("error loading chunks", "err", err)
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, ErrIndexUnavailable
	}

	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}

	res := &Result{ChunkCount: len(chunks)}
	for _, c := range chunks {
		if c == nil {
			continue
		}
		if len(c.Embedding) != len(embedding) {
			res.DimensionMismatches++
		}
		if c.Model != "" && r.model != "" && c.Model != r.model {
			res.StaleModelChunks++
		}
	}
	if res.DimensionMismatches > 0 {
		r.logger.Warn("chunk embedding dimension differs from query",
			"mismatched", res.DimensionMismatches,
			"chunks", len(chunks),
			"queryDimension", len(embedding))
	}
	if res.StaleModelChunks > 0 {
		r.logger.Warn("chunks embedded with a different model",
			"stale", res.StaleModelChunks,
			"model", r.model)
	}

	matches := r.build(chunks).TopK(embedding, r.topK)
	if len(matches) == 0 {
		return res, nil
	}

	numbers := make([]string, 0, len(matches))
	for _, m := range matches {
		numbers = append(numbers, m.Chunk.ClaimNumber)
	}

	var claims []*core.Claim
	err = r.policy.Do(ctx, func() error {
		var err error
		claims, err = r.claims.GetClaims(ctx, numbers...)
		return err
	})
	if err != nil {
		r.logger.Error("error retrieving claims for chunks", "claimCount", len(numbers), "err", err)
		return nil, fmt.Errorf("load claims: %w", err)
	}
	byNumber := make(map[string]*core.Claim, len(claims))
	for _, c := range claims {
		if c != nil {
			byNumber[c.ClaimNumber] = c
		}
	}

	res.Items = make([]*Item, 0, len(matches))
	for _, m := range matches {
		res.Items = append(res.Items, joinItem(m, byNumber[m.Chunk.ClaimNumber]))
	}
	res.Confidence = res.Items[0].Similarity
	return res, nil
}

func joinItem(m Match, claim *core.Claim) *Item {
	chunk := m.Chunk
	item := &Item{
		ClaimNumber: chunk.ClaimNumber,
		Claim:       claim,
		Similarity:  m.Similarity,
		Text:        chunk.Text,
	}

	if claim == nil {
		item.FromSnapshot = true
		item.Status = string(chunk.Status)
		item.Diagnosis = chunk.Diagnosis
		item.Provider = chunk.Provider
		item.SubmittedAt = chunk.SubmittedAt
	} else {
		item.Status = firstNonEmpty(string(claim.Status), string(chunk.Status))
		item.Diagnosis = firstNonEmpty(claim.Diagnosis(), chunk.Diagnosis)
		item.DiagnosisCode = claim.DiagnosisCode()
		item.Provider = firstNonEmpty(claim.Provider(), chunk.Provider)
		item.DenialReason = claim.DenialReason
		item.Amount = claim.Amount
		item.SubmittedAt = claim.SubmittedAt
		if item.SubmittedAt.IsZero() {
			item.SubmittedAt = chunk.SubmittedAt
		}
	}
	if item.Status == "" {
		item.Status = core.StatusUnknown
	}
	return item
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
