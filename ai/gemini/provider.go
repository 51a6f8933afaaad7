package gemini

import (
	"context"
	"log/slog"

	"github.com/poiesic/claimlens/ai"
)

// Provider implements ai.AIProvider for Gemini.
type Provider struct {
	config   *ai.Config
	embedder *Embedder
	logger   *slog.Logger
}

// NewProvider creates a Gemini provider. The config must select the
// gemini provider and carry an API key.
func NewProvider(ctx context.Context, config *ai.Config) (ai.AIProvider, error) {
	embedder, err := newEmbedder(ctx, config)
	if err != nil {
		return nil, err
	}
	return &Provider{
		config:   config,
		embedder: embedder,
		logger:   slog.Default().With("component", "gemini-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Model returns the configured embedding model.
func (p *Provider) Model() string {
	return p.config.EmbeddingModel
}

// Close is a no-op; the genai client holds no closable resources.
func (p *Provider) Close() error {
	p.logger.Debug("closing Gemini provider")
	return nil
}
