package ai

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, int64(4), cfg.MaxConcurrent)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with gemini options", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderGemini),
			WithEmbeddingModel("gemini-embedding-001"),
			WithAPIKey("key"),
			WithDimension(768),
		)

		assert.Equal(t, ProviderGemini, cfg.Provider)
		assert.Equal(t, "gemini-embedding-001", cfg.EmbeddingModel)
		assert.Equal(t, "key", cfg.APIKey)
		assert.Equal(t, 768, cfg.Dimension)
	})

	t.Run("with guard options", func(t *testing.T) {
		cfg := NewConfig(
			WithTimeout(time.Second),
			WithRetries(5, 10*time.Millisecond),
			WithMaxConcurrent(2),
			WithRequestsPerSecond(3.5),
			WithCacheTTL(0),
		)

		assert.Equal(t, time.Second, cfg.Timeout)
		assert.Equal(t, 5, cfg.MaxRetries)
		assert.Equal(t, 10*time.Millisecond, cfg.RetryDelay)
		assert.Equal(t, int64(2), cfg.MaxConcurrent)
		assert.Equal(t, 3.5, cfg.RequestsPerSecond)
		assert.Equal(t, time.Duration(0), cfg.CacheTTL)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		host     string
		expected string
	}{
		{"already has /v1", ProviderOpenAI, "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"missing /v1", ProviderOpenAI, "http://localhost:11434", "http://localhost:11434/v1"},
		{"has trailing slash", ProviderOpenAI, "http://localhost:11434/", "http://localhost:11434/v1"},
		{"empty host", ProviderOpenAI, "", ""},
		{"provider is case-insensitive", " OpenAI ", "http://embed:8080", "http://embed:8080/v1"},
		{"gemini host untouched", ProviderGemini, "http://embed:8080", "http://embed:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Provider: tt.provider, EmbeddingHost: tt.host}

			cfg.Normalize()

			assert.Equal(t, tt.expected, cfg.EmbeddingHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid default", func(*Config) {}, ""},
		{"missing host", func(c *Config) { c.EmbeddingHost = "" }, "EmbeddingHost"},
		{"missing model", func(c *Config) { c.EmbeddingModel = "" }, "EmbeddingModel"},
		{"unknown provider", func(c *Config) { c.Provider = "cohere" }, "unknown embedding provider"},
		{"gemini without key", func(c *Config) { c.Provider = ProviderGemini; c.APIKey = "none" }, "APIKey"},
		{"gemini with key", func(c *Config) { c.Provider = ProviderGemini; c.APIKey = "k" }, ""},
		{"negative dimension", func(c *Config) { c.Dimension = -1 }, "Dimension"},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, "MaxRetries"},
		{"zero concurrency", func(c *Config) { c.MaxConcurrent = 0 }, "MaxConcurrent"},
		{"negative rate", func(c *Config) { c.RequestsPerSecond = -1 }, "RequestsPerSecond"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigValidate_UnknownProviderIsSentinel(t *testing.T) {
	cfg := NewConfig(WithProvider("bogus"))
	err := cfg.Validate()
	assert.True(t, errors.Is(err, ErrUnknownProvider))
}
