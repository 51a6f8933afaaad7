package claimlens

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/claimlens/ai"
	"github.com/poiesic/claimlens/ranking"
	"github.com/poiesic/claimlens/render"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claimlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func clearKeys(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvGeminiAPIKey, "")
	t.Setenv(EnvOpenAIAPIKey, "")
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearKeys(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Ranking, cfg.Ranking)
	assert.Equal(t, ai.ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, filepath.Join("claimlens-data", "claims"), cfg.ClaimsPath())
	assert.Equal(t, filepath.Join("claimlens-data", "audit.db"), cfg.AuditLogPath())
}

func TestLoadConfig_File(t *testing.T) {
	clearKeys(t)

	path := writeConfig(t, `
data_dir: /var/lib/claimlens
audit_path: /var/log/claimlens/audit.db
ai:
  embedding_model: nomic-embed-text
  embedding_host: http://embed:8080
  timeout: 5s
  cache_ttl: 0s
ranking:
  weights:
    denied: 3
  max_results: 25
render:
  currency_symbol: "$"
  templates:
    prompt: "Type a claim number."
indexer:
  batch_size: 16
  workers: 2
retry:
  max_attempts: 5
  base_delay: 50ms
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/claimlens/claims", cfg.ClaimsPath())
	assert.Equal(t, "/var/log/claimlens/audit.db", cfg.AuditLogPath())

	assert.Equal(t, "nomic-embed-text", cfg.AI.EmbeddingModel)
	assert.Equal(t, "http://embed:8080/v1", cfg.AI.EmbeddingHost, "host normalized")
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, time.Duration(0), cfg.AI.CacheTTL)
	assert.Equal(t, int64(4), cfg.AI.MaxConcurrent, "unset fields keep defaults")

	assert.Equal(t, 3.0, cfg.Ranking.Weights.Denied)
	assert.Equal(t, 8.0, cfg.Ranking.Weights.ExactClaim)
	assert.Equal(t, 25, cfg.Ranking.MaxResults)

	assert.Equal(t, "$", cfg.Render.CurrencySymbol)
	assert.Equal(t, "Type a claim number.", cfg.Render.Templates[render.KeyPrompt])

	assert.Equal(t, 16, cfg.Indexer.BatchSize)
	assert.Equal(t, 2, cfg.Indexer.Workers)

	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.Retry.BaseDelay)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearKeys(t)

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name:    "max results out of range",
			body:    "ranking:\n  max_results: 51\n",
			wantErr: ranking.ErrInvalidMaxResults,
		},
		{
			name:    "unknown provider",
			body:    "ai:\n  provider: bedrock\n",
			wantErr: ai.ErrUnknownProvider,
		},
		{
			name: "malformed yaml",
			body: "ranking: [",
		},
		{
			name: "gemini without key",
			body: "ai:\n  provider: gemini\n  embedding_model: gemini-embedding-001\n",
		},
		{
			name: "zero retry attempts",
			body: "retry:\n  max_attempts: 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Run("provider key", func(t *testing.T) {
		clearKeys(t)
		t.Setenv(EnvGeminiAPIKey, "gemini-key")

		cfg, err := LoadConfig(writeConfig(t, "ai:\n  provider: gemini\n  embedding_model: gemini-embedding-001\n"))
		require.NoError(t, err)
		assert.Equal(t, "gemini-key", cfg.AI.APIKey)
	})

	t.Run("claimlens key wins", func(t *testing.T) {
		clearKeys(t)
		t.Setenv(EnvAPIKey, "shared-key")
		t.Setenv(EnvOpenAIAPIKey, "openai-key")

		cfg := DefaultConfig()
		cfg.ApplyEnv()
		assert.Equal(t, "shared-key", cfg.AI.APIKey)
	})

	t.Run("no key keeps default", func(t *testing.T) {
		clearKeys(t)

		cfg := DefaultConfig()
		cfg.ApplyEnv()
		assert.Equal(t, "none", cfg.AI.APIKey)
	})
}
