package ai

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/poiesic/claimlens/resilience"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// GuardedEmbedder bounds, rate limits, times out and retries calls to
// another Embedder. Embedding calls are idempotent so every failure
// other than a count mismatch is retried.
type GuardedEmbedder struct {
	next    Embedder
	sem     *semaphore.Weighted
	limiter *rate.Limiter
	timeout time.Duration
	policy  resilience.Policy
	logger  *slog.Logger
}

var _ Embedder = (*GuardedEmbedder)(nil)

// retrier is implemented by embedders that retry failed calls themselves.
type retrier interface {
	retries() bool
}

// IsGuarded reports whether e retries failed calls, either as a
// GuardedEmbedder or by wrapping one.
func IsGuarded(e Embedder) bool {
	r, ok := e.(retrier)
	return ok && r.retries()
}

func (g *GuardedEmbedder) retries() bool { return true }

// NewGuardedEmbedder wraps next using the limits in config.
func NewGuardedEmbedder(next Embedder, config *Config) (*GuardedEmbedder, error) {
	if next == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	g := &GuardedEmbedder{
		next:    next,
		sem:     semaphore.NewWeighted(maxConcurrent),
		timeout: config.Timeout,
		policy: resilience.Policy{
			MaxAttempts: config.MaxRetries + 1,
			BaseDelay:   config.RetryDelay,
			MaxDelay:    config.MaxRetryDelay,
		},
		logger: slog.Default().With("component", "embedder-guard"),
	}
	if config.RequestsPerSecond > 0 {
		burst := int(math.Ceil(config.RequestsPerSecond))
		g.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}
	return g, nil
}

// EmbedText embeds a single text under the guard.
func (g *GuardedEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	var vector []float32
	err := g.call(ctx, func(ctx context.Context) error {
		v, err := g.next.EmbedText(ctx, text)
		if err != nil {
			return err
		}
		vector = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vector, nil
}

// EmbedTexts embeds a batch under the guard and checks one vector came back per input.
func (g *GuardedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32
	err := g.call(ctx, func(ctx context.Context) error {
		v, err := g.next.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		if len(v) != len(texts) {
			return resilience.Permanent(fmt.Errorf("%w: got %d, want %d", ErrEmbeddingCountMismatch, len(v), len(texts)))
		}
		vectors = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

func (g *GuardedEmbedder) call(ctx context.Context, fn func(ctx context.Context) error) error {
	attempt := 0
	err := g.policy.Do(ctx, func() error {
		attempt++
		if err := g.sem.Acquire(ctx, 1); err != nil {
			return err
		}
		defer g.sem.Release(1)

		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		attemptCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}

		err := fn(attemptCtx)
		if err != nil {
			g.logger.Warn("embedding attempt failed", "attempt", attempt, "err", err)
		}
		return err
	})
	if err != nil {
		g.logger.Error("embedding failed", "attempts", attempt, "err", err)
	}
	return err
}
