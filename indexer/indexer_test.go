package indexer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/claimlens/ai/mock"
)

func testConfig() Config {
	config := DefaultConfig()
	config.BatchSize = 4
	config.Workers = 2
	config.ReportInterval = 4
	config.Retry = testPolicy
	return config
}

func TestNewIndexer_RequiresDependencies(t *testing.T) {
	claims, chunks, cleanup := setupRepos(t)
	defer cleanup()
	provider := mock.NewMockProvider()

	_, err := NewIndexer(nil, chunks, provider, testConfig())
	assert.ErrorIs(t, err, ErrClaimRepositoryRequired)

	_, err = NewIndexer(claims, nil, provider, testConfig())
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	_, err = NewIndexer(claims, chunks, nil, testConfig())
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestIndexer_Run(t *testing.T) {
	claims, chunks, cleanup := setupRepos(t)
	defer cleanup()

	ctx := context.Background()
	seedClaims(t, claims, 10)

	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithEmbedder(embedder, "model-a")

	var out bytes.Buffer
	ix, err := NewIndexer(claims, chunks, provider, testConfig(), WithProgress(&out))
	require.NoError(t, err)
	defer ix.Release()

	summary, err := ix.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, summary.Total)
	assert.Equal(t, 10, summary.Indexed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 3, embedder.BatchCallCount(), "10 claims in batches of 4")

	count, err := chunks.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)

	assert.Contains(t, out.String(), "Indexing 10 claims")
	assert.Contains(t, out.String(), "10/10")
	assert.Contains(t, out.String(), "Indexing complete. 10 indexed, 0 unchanged")
}

func TestIndexer_SecondRunSkipsUnchanged(t *testing.T) {
	claims, chunks, cleanup := setupRepos(t)
	defer cleanup()

	ctx := context.Background()
	seedClaims(t, claims, 6)

	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithEmbedder(embedder, "model-a")

	ix, err := NewIndexer(claims, chunks, provider, testConfig())
	require.NoError(t, err)
	defer ix.Release()

	_, err = ix.Run(ctx)
	require.NoError(t, err)
	embedder.Reset()

	summary, err := ix.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Indexed)
	assert.Equal(t, 6, summary.Skipped)
	assert.Equal(t, 0, embedder.CallCount(), "no provider calls for unchanged claims")
}

func TestIndexer_Limit(t *testing.T) {
	claims, chunks, cleanup := setupRepos(t)
	defer cleanup()

	ctx := context.Background()
	seedClaims(t, claims, 10)

	config := testConfig()
	config.Limit = 3

	ix, err := NewIndexer(claims, chunks, mock.NewMockProvider(), config)
	require.NoError(t, err)
	defer ix.Release()

	summary, err := ix.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.Indexed)

	_, err = chunks.GetChunk(ctx, "CLM-2025-1009")
	assert.NoError(t, err, "newest claim indexed")
	_, err = chunks.GetChunk(ctx, "CLM-2025-1000")
	assert.Error(t, err, "oldest claim outside the limit")
}

func TestIndexer_NoClaims(t *testing.T) {
	claims, chunks, cleanup := setupRepos(t)
	defer cleanup()

	embedder := mock.NewMockEmbedder()
	var out bytes.Buffer
	ix, err := NewIndexer(claims, chunks, mock.NewMockProviderWithEmbedder(embedder, "model-a"), testConfig(), WithProgress(&out))
	require.NoError(t, err)
	defer ix.Release()

	summary, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, embedder.CallCount())
	assert.Contains(t, out.String(), "No claims found")
}

func TestIndexer_ProviderFailure(t *testing.T) {
	claims, chunks, cleanup := setupRepos(t)
	defer cleanup()

	seedClaims(t, claims, 8)

	boom := errors.New("provider down")
	embedder := mock.NewMockEmbedder().WithEmbedTextsFunc(func(context.Context, []string) ([][]float32, error) {
		return nil, boom
	})

	ix, err := NewIndexer(claims, chunks, mock.NewMockProviderWithEmbedder(embedder, "model-a"), testConfig())
	require.NoError(t, err)
	defer ix.Release()

	_, err = ix.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestIndexer_CancelledContext(t *testing.T) {
	claims, chunks, cleanup := setupRepos(t)
	defer cleanup()

	seedClaims(t, claims, 4)

	ix, err := NewIndexer(claims, chunks, mock.NewMockProvider(), testConfig())
	require.NoError(t, err)
	defer ix.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ix.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
