package claimlens

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/claimlens/ai"
	"github.com/poiesic/claimlens/ai/mock"
	"github.com/poiesic/claimlens/core"
	"github.com/poiesic/claimlens/search"
)

const claimsJSON = `[
  {
    "claim_number": "CLM-2025-1000",
    "patient_name": "Asha Rao",
    "policy_number": "POL-100",
    "status": "denied",
    "amount": 1200,
    "submitted_at": "2025-05-20T10:00:00Z",
    "denial_code": "D12",
    "denial_reason": "Pre-authorization missing",
    "notes": "MRI lower back",
    "metadata": {"provider": "City Hospital", "diagnosis": "Back pain"}
  },
  {
    "claim_number": "CLM-2025-1001",
    "patient_name": "Vikram Shah",
    "policy_number": "POL-200",
    "status": "approved",
    "amount": 450.5,
    "submitted_at": "2025-05-22T10:00:00Z",
    "notes": "Pediatric visit for fever"
  }
]`

func openTestService(t *testing.T) (*Service, *mock.MockProvider) {
	t.Helper()

	provider := mock.NewMockProviderWithEmbedder(mock.NewMockEmbedder(), "test-model")
	svc, err := Open(context.Background(), DefaultConfig(), WithInMemory(), WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc, provider
}

func TestOpen(t *testing.T) {
	t.Run("open in memory", func(t *testing.T) {
		svc, _ := openTestService(t)

		assert.NotNil(t, svc.ClaimRepository())
		assert.NotNil(t, svc.ChunkRepository())
		assert.NotNil(t, svc.AuditLog())
		assert.NotNil(t, svc.backend)
		assert.NotNil(t, svc.logger)
	})

	t.Run("open on disk", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()

		svc, err := Open(context.Background(), cfg, WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NoError(t, svc.Close())

		_, err = os.Stat(cfg.AuditLogPath())
		assert.NoError(t, err, "audit log file created")
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Put a file where the claim store directory should be
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		require.NoError(t, os.WriteFile(cfg.ClaimsPath(), []byte("test"), 0644))

		svc, err := Open(context.Background(), cfg, WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("error with invalid ranking config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Ranking.MaxResults = 0

		svc, err := Open(context.Background(), cfg, WithInMemory(), WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, svc)
	})
}

func TestService_Close(t *testing.T) {
	provider := mock.NewMockProviderWithEmbedder(mock.NewMockEmbedder(), "test-model")
	svc, err := Open(context.Background(), DefaultConfig(), WithInMemory(), WithProvider(provider))
	require.NoError(t, err)

	assert.NoError(t, svc.Close())
	assert.True(t, provider.Closed(), "provider closed with the service")
}

func TestService_ImportIndexAndSearch(t *testing.T) {
	svc, provider := openTestService(t)
	ctx := context.Background()

	n, err := svc.ImportClaims(ctx, strings.NewReader(claimsJSON))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	searcher, err := svc.NewSearcher()
	require.NoError(t, err)

	t.Run("semantic search before indexing", func(t *testing.T) {
		resp, err := searcher.Semantic(ctx, "pediatric visit")
		require.NoError(t, err)
		assert.Equal(t, search.TypeIndexUnavailable, resp.Type)
		assert.Equal(t, 0, provider.GetMockEmbedder().CallCount())
	})

	ix, err := svc.NewIndexer()
	require.NoError(t, err)
	defer ix.Release()

	summary, err := ix.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Indexed)

	t.Run("semantic search after indexing", func(t *testing.T) {
		resp, err := searcher.Semantic(ctx, "pediatric visit")
		require.NoError(t, err)
		assert.Equal(t, search.TypeSemanticSearch, resp.Type)
	})

	t.Run("exact lookup", func(t *testing.T) {
		resp, err := searcher.Ask(ctx, "CLM-2025-1000")
		require.NoError(t, err)
		assert.Equal(t, search.TypeClaimStatus, resp.Type)
		assert.Equal(t, 1.0, resp.Confidence)
	})

	t.Run("queries are audited", func(t *testing.T) {
		entries, err := svc.AuditLog().RecentQueries(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})
}

func TestService_ImportEventsAndDetails(t *testing.T) {
	svc, _ := openTestService(t)
	ctx := context.Background()

	_, err := svc.ImportClaims(ctx, strings.NewReader(claimsJSON))
	require.NoError(t, err)

	n, err := svc.ImportEvents(ctx, strings.NewReader(`[
		{"claim_number": "CLM-2025-1000", "event_type": "submitted", "created_at": "2025-06-01T09:00:00Z"},
		{"claim_number": "CLM-2025-1000", "event_type": "denied", "created_by": "reviewer",
		 "event_data": {"denial_code": "D-17"}, "created_at": "2025-06-03T09:00:00Z"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	searcher, err := svc.NewSearcher()
	require.NoError(t, err)

	details, err := searcher.Details(ctx, "CLM-2025-1000")
	require.NoError(t, err)
	require.Len(t, details.Events, 2)
	assert.Equal(t, "denied", details.Events[0].Type)
	assert.Equal(t, "D-17", details.Events[0].Data["denial_code"])

	_, err = svc.ImportEvents(ctx, strings.NewReader(`[{"claim_number": "CLM-2025-1000"}]`))
	assert.ErrorIs(t, err, core.ErrEmptyEventType)

	_, err = svc.ImportEvents(ctx, strings.NewReader(`{`))
	assert.Error(t, err)
}

func TestService_ImportClaimsRejectsBadInput(t *testing.T) {
	svc, _ := openTestService(t)
	ctx := context.Background()

	_, err := svc.ImportClaims(ctx, strings.NewReader("{not json"))
	assert.Error(t, err)

	_, err = svc.ImportClaims(ctx, strings.NewReader(`[{"claim_number": "1000", "status": "paid"}]`))
	assert.Error(t, err)

	n, err := svc.ImportClaims(ctx, strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	_, err := NewProvider(context.Background(), ai.NewConfig(ai.WithProvider("bogus")))
	assert.ErrorIs(t, err, ai.ErrUnknownProvider)

	_, err = NewProvider(context.Background(), ai.NewConfig(ai.WithProvider(ai.ProviderGemini), ai.WithAPIKey("")))
	assert.Error(t, err)
}

func TestNewProvider_OpenAIIsGuarded(t *testing.T) {
	provider, err := NewProvider(context.Background(), ai.DefaultConfig())
	require.NoError(t, err)
	defer provider.Close()

	assert.Equal(t, "embeddinggemma", provider.Model())
	assert.IsType(t, &ai.CachingEmbedder{}, provider.Embedder())
}
