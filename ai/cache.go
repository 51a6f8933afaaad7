package ai

import (
	"context"
	"slices"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachingEmbedder memoizes single-text embeddings, which is what repeated
// queries hit. Batch calls pass straight through.
type CachingEmbedder struct {
	next  Embedder
	cache *gocache.Cache
}

var _ Embedder = (*CachingEmbedder)(nil)

// NewCachingEmbedder wraps next with a TTL cache keyed by the exact text.
func NewCachingEmbedder(next Embedder, ttl time.Duration) (*CachingEmbedder, error) {
	if next == nil {
		return nil, ErrEmbedderRequired
	}
	return &CachingEmbedder{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}, nil
}

// EmbedText returns a cached vector or embeds and caches it.
func (c *CachingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if val, found := c.cache.Get(text); found {
		return slices.Clone(val.([]float32)), nil
	}
	vector, err := c.next.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(text, slices.Clone(vector))
	return vector, nil
}

// EmbedTexts delegates to the wrapped embedder.
func (c *CachingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return c.next.EmbedTexts(ctx, texts)
}

func (c *CachingEmbedder) retries() bool { return IsGuarded(c.next) }

// Len returns the number of cached entries, including expired ones not yet evicted.
func (c *CachingEmbedder) Len() int {
	return c.cache.ItemCount()
}

// Flush empties the cache.
func (c *CachingEmbedder) Flush() {
	c.cache.Flush()
}

// Wrap builds the standard embedder stack for config: the guard around
// next, then the query cache when CacheTTL is positive.
func Wrap(next Embedder, config *Config) (Embedder, error) {
	if config == nil {
		config = DefaultConfig()
	}
	guarded, err := NewGuardedEmbedder(next, config)
	if err != nil {
		return nil, err
	}
	if config.CacheTTL <= 0 {
		return guarded, nil
	}
	return NewCachingEmbedder(guarded, config.CacheTTL)
}
