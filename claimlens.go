// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package claimlens wires the claim store, the embedding provider and the
// query components into one service.
package claimlens

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/claimlens/ai"
	"github.com/poiesic/claimlens/ai/gemini"
	"github.com/poiesic/claimlens/ai/openai"
	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/indexer"
	"github.com/poiesic/claimlens/ranking"
	"github.com/poiesic/claimlens/render"
	"github.com/poiesic/claimlens/search"
	"github.com/poiesic/claimlens/semantic"
	"github.com/poiesic/claimlens/storage"
	"github.com/poiesic/claimlens/storage/badger"
	"github.com/poiesic/claimlens/storage/sqlite"
)

// Service owns the claim store, the audit log and the embedding provider,
// and builds the searchers and indexers that share them.
type Service struct {
	backend  *badger.Backend
	claims   storage.ClaimRepository
	chunks   storage.ChunkRepository
	events   storage.EventRepository
	audit    storage.AuditLog
	provider ai.AIProvider
	renderer *render.Renderer
	ranker   *ranking.Ranker
	config   *Config
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	provider ai.AIProvider
	logger   *slog.Logger
	inMemory bool
}

// WithProvider uses provider as given instead of building one from the
// AI configuration.
func WithProvider(provider ai.AIProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInMemory keeps claims, chunks and the audit log in memory.
func WithInMemory() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// NewProvider builds the provider selected by config with the guard and
// query cache in front of its embedder.
func NewProvider(ctx context.Context, config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		provider ai.AIProvider
		err      error
	)
	switch config.Provider {
	case ai.ProviderGemini:
		provider, err = gemini.NewProvider(ctx, config)
	default:
		provider, err = openai.NewProvider(config)
	}
	if err != nil {
		return nil, err
	}

	guarded, err := ai.Guard(provider, config)
	if err != nil {
		provider.Close()
		return nil, err
	}
	return guarded, nil
}

// Open opens the claim store under config.DataDir and the audit log, and
// builds the embedding provider unless WithProvider supplies one. A nil
// config means DefaultConfig(). Close must be called when done.
func Open(ctx context.Context, config *Config, opts ...ServiceOption) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	options := &serviceOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	// Build the pure components first so a bad config opens nothing
	renderer, err := render.New(config.Render)
	if err != nil {
		return nil, err
	}
	ranker, err := ranking.NewRanker(config.Ranking)
	if err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackend(config.ClaimsPath(), options.inMemory)
	if err != nil {
		return nil, err
	}

	claims, err := badger.NewClaimRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunks, err := badger.NewChunkRepository(backend)
	if err != nil {
		claims.Close()
		backend.Close()
		return nil, err
	}

	events, err := badger.NewEventRepository(backend)
	if err != nil {
		chunks.Close()
		claims.Close()
		backend.Close()
		return nil, err
	}

	auditPath := config.AuditLogPath()
	if options.inMemory {
		auditPath = ":memory:"
	}
	audit, err := sqlite.OpenAuditLog(auditPath)
	if err != nil {
		events.Close()
		chunks.Close()
		claims.Close()
		backend.Close()
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	provider := options.provider
	if provider == nil {
		provider, err = NewProvider(ctx, config.AI)
		if err != nil {
			audit.Close()
			events.Close()
			chunks.Close()
			claims.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Service{
		backend:  backend,
		claims:   claims,
		chunks:   chunks,
		events:   events,
		audit:    audit,
		provider: provider,
		renderer: renderer,
		ranker:   ranker,
		config:   config,
		logger:   options.logger,
	}, nil
}

// Close closes the provider, the audit log, the repositories and the
// backend in that order. Provider and audit log failures are logged;
// the first storage failure is returned.
func (s *Service) Close() error {
	// Close AI provider first
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.audit.Close(); err != nil {
		s.logger.Error("error closing audit log", "err", err)
	}

	// Close repositories
	if err := s.events.Close(); err != nil {
		s.logger.Error("error closing event repository", "err", err)
		return err
	}
	if err := s.chunks.Close(); err != nil {
		s.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := s.claims.Close(); err != nil {
		s.logger.Error("error closing claim repository", "err", err)
		return err
	}

	// Close backend
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ClaimRepository returns the claim store.
func (s *Service) ClaimRepository() storage.ClaimRepository {
	return s.claims
}

// ChunkRepository returns the semantic chunk store.
func (s *Service) ChunkRepository() storage.ChunkRepository {
	return s.chunks
}

// EventRepository returns the claim event store.
func (s *Service) EventRepository() storage.EventRepository {
	return s.events
}

// AuditLog returns the query audit log.
func (s *Service) AuditLog() storage.AuditLog {
	return s.audit
}

// Config returns the configuration the service was opened with.
func (s *Service) Config() *Config {
	return s.config
}

// NewRetriever builds a semantic retriever over the service's chunks.
func (s *Service) NewRetriever(opts ...semantic.Option) (*semantic.Retriever, error) {
	base := []semantic.Option{
		semantic.WithLogger(s.logger),
		semantic.WithTopK(s.config.SemanticTopK),
		semantic.WithRetryPolicy(s.config.Retry),
	}
	return semantic.NewRetriever(s.chunks, s.claims, s.provider, append(base, opts...)...)
}

// NewSearcher builds a searcher with semantic retrieval and auditing
// enabled. opts are applied after the service defaults.
func (s *Service) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	retriever, err := s.NewRetriever()
	if err != nil {
		return nil, err
	}
	base := []search.Option{
		search.WithLogger(s.logger),
		search.WithRetriever(retriever),
		search.WithAuditLog(s.audit),
		search.WithEventRepository(s.events),
		search.WithRetryPolicy(s.config.Retry),
		search.WithCandidateLimit(s.config.CandidateLimit),
	}
	return search.NewSearcher(s.claims, s.renderer, s.ranker, append(base, opts...)...)
}

// NewIndexer builds a chunk indexer from the indexer configuration.
// Release must be called when done.
func (s *Service) NewIndexer(opts ...indexer.Option) (*indexer.Indexer, error) {
	base := []indexer.Option{indexer.WithLogger(s.logger)}
	return indexer.NewIndexer(s.claims, s.chunks, s.provider, s.config.Indexer, append(base, opts...)...)
}

// ImportClaims reads a JSON array of claims from r and upserts them.
// Returns the number of claims stored.
func (s *Service) ImportClaims(ctx context.Context, r io.Reader) (int, error) {
	var claims []*core.Claim
	if err := json.NewDecoder(r).Decode(&claims); err != nil {
		return 0, fmt.Errorf("failed to decode claims: %w", err)
	}
	if len(claims) == 0 {
		return 0, nil
	}
	stored, err := s.claims.PutClaims(ctx, claims...)
	if err != nil {
		return 0, err
	}
	s.logger.Info("imported claims", "count", len(stored))
	return len(stored), nil
}

// ImportEvents reads a JSON array of claim events from r and stores them.
// Returns the number of events stored.
func (s *Service) ImportEvents(ctx context.Context, r io.Reader) (int, error) {
	var events []*core.ClaimEvent
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return 0, fmt.Errorf("failed to decode events: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}
	stored, err := s.events.AddEvents(ctx, events...)
	if err != nil {
		return 0, err
	}
	s.logger.Info("imported events", "count", len(stored))
	return len(stored), nil
}
