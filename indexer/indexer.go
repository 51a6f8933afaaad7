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

package indexer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/claimlens/ai"
	"github.com/poiesic/claimlens/resilience"
	"github.com/poiesic/claimlens/storage"
)

// Config holds configuration for an indexing run.
type Config struct {
	// BatchSize is the number of claims embedded per provider call
	BatchSize int `yaml:"batch_size"`

	// ReportInterval is how often to report progress (number of claims)
	ReportInterval int `yaml:"report_interval"`

	// Limit indexes only the most recent claims; 0 indexes all
	Limit int `yaml:"limit"`

	// Workers is the number of batches embedded concurrently
	Workers int `yaml:"workers"`

	// Force re-embeds claims whose chunk is already current
	Force bool `yaml:"force"`

	// Retry bounds retries of each embedding call. Unused when the
	// provider's embedder is guarded, which retries on its own.
	Retry resilience.Policy `yaml:"retry"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		Workers:        max(1, runtime.NumCPU()/2),
		Retry: resilience.Policy{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			MaxDelay:    10 * time.Second,
		},
	}
}

// Summary reports the outcome of a run.
type Summary struct {
	Total   int
	Indexed int
	Skipped int
	Elapsed time.Duration
}

// Indexer orchestrates building chunks for every stored claim.
type Indexer struct {
	claims    storage.ClaimRepository
	chunks    storage.ChunkRepository
	config    Config
	progress  io.Writer
	pool      *ants.Pool
	processor *BatchProcessor
	iterator  *ClaimIterator
	logger    *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// WithProgress sets where progress is written (typically os.Stderr).
// Default discards progress output.
func WithProgress(w io.Writer) Option {
	return func(ix *Indexer) error {
		if w == nil {
			w = io.Discard
		}
		ix.progress = w
		return nil
	}
}

// NewIndexer creates a new indexer. Release must be called when done.
func NewIndexer(
	claims storage.ClaimRepository,
	chunks storage.ChunkRepository,
	provider ai.AIProvider,
	config Config,
	opts ...Option,
) (*Indexer, error) {
	if claims == nil {
		return nil, ErrClaimRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.ReportInterval < 1 {
		config.ReportInterval = 1
	}
	if config.Retry.MaxAttempts < 1 {
		config.Retry = DefaultConfig().Retry
	}

	ix := &Indexer{
		claims:   claims,
		chunks:   chunks,
		config:   config,
		progress: io.Discard,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(config.Workers)
	if err != nil {
		return nil, err
	}

	ix.pool = pool
	ix.processor = NewBatchProcessor(chunks, provider.Embedder(), provider.Model(), config.Retry, config.Force, ix.logger)
	ix.iterator = NewClaimIterator(claims, config.BatchSize, config.Limit)
	return ix, nil
}

// Release frees the worker pool.
func (ix *Indexer) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}

// Run indexes the configured claims. Batches run concurrently on the
// worker pool; the first batch failure cancels the rest and is returned.
func (ix *Indexer) Run(ctx context.Context) (*Summary, error) {
	claims, err := ix.iterator.Claims(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}

	summary := &Summary{Total: len(claims)}
	if len(claims) == 0 {
		fmt.Fprintf(ix.progress, "No claims found (0 claims)\n")
		return summary, nil
	}

	fmt.Fprintf(ix.progress, "Indexing %d claims (batch size: %d, workers: %d)\n",
		len(claims), ix.iterator.batchSize, ix.config.Workers)

	tracker := NewProgressTracker(ix.progress, len(claims), ix.config.ReportInterval)
	tracker.Start()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i, batch := range ix.iterator.Batches(claims) {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		submitErr := ix.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			res, err := ix.processor.Process(ctx, batch)
			if err != nil {
				ix.logger.Error("failed to index batch", "batch", i, "size", len(batch), "err", err)
				cancel(fmt.Errorf("failed to process batch %d: %w", i, err))
				return
			}
			mu.Lock()
			summary.Indexed += res.Indexed
			summary.Skipped += res.Skipped
			mu.Unlock()
			tracker.Increment(len(batch))
		})
		if submitErr != nil {
			wg.Done()
			cancel(submitErr)
			break
		}
	}
	wg.Wait()

	if cause := context.Cause(ctx); cause != nil {
		return summary, cause
	}

	tracker.Finish()
	summary.Elapsed = tracker.Elapsed()
	fmt.Fprintf(ix.progress, "Indexing complete. %d indexed, %d unchanged in %v\n",
		summary.Indexed, summary.Skipped, summary.Elapsed.Round(time.Millisecond))

	return summary, nil
}
