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

package ai

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Supported embedding providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds configuration for the embedding provider and the guard
// placed in front of it.
type Config struct {
	// Provider selects the embedding backend: "openai" or "gemini".
	Provider string `yaml:"provider"`

	// EmbeddingHost is the base URL for OpenAI-compatible embedding APIs.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server.
	// Ignored by the gemini provider.
	EmbeddingHost string `yaml:"embedding_host"`

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small", "gemini-embedding-001"
	EmbeddingModel string `yaml:"embedding_model"`

	// APIKey authenticates against the provider. Local servers accept "none".
	APIKey string `yaml:"-"`

	// Dimension requests a reduced output dimensionality where supported.
	// Zero keeps the model default.
	Dimension int `yaml:"dimension"`

	// Timeout bounds a single embedding attempt.
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of retries after a failed attempt.
	MaxRetries int `yaml:"max_retries"`

	// RetryDelay is the first backoff delay; it doubles per retry.
	RetryDelay time.Duration `yaml:"retry_delay"`

	// MaxRetryDelay caps a single backoff delay.
	MaxRetryDelay time.Duration `yaml:"max_retry_delay"`

	// MaxConcurrent bounds outstanding embedding calls.
	MaxConcurrent int64 `yaml:"max_concurrent"`

	// RequestsPerSecond rate limits embedding calls. Zero disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// CacheTTL keeps single-text query embeddings for this long.
	// Zero disables the cache.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider selects the embedding provider.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithDimension requests a reduced embedding dimensionality.
func WithDimension(dim int) ConfigOption {
	return func(c *Config) {
		c.Dimension = dim
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithRetries sets the retry count and first backoff delay.
func WithRetries(maxRetries int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithMaxConcurrent bounds outstanding embedding calls.
func WithMaxConcurrent(n int64) ConfigOption {
	return func(c *Config) {
		c.MaxConcurrent = n
	}
}

// WithRequestsPerSecond enables rate limiting.
func WithRequestsPerSecond(rps float64) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
	}
}

// WithCacheTTL sets the query embedding cache lifetime.
func WithCacheTTL(ttl time.Duration) ConfigOption {
	return func(c *Config) {
		c.CacheTTL = ttl
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible embedding server.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "embeddinggemma",
		APIKey:         "none",
		Timeout:        30 * time.Second,
		MaxRetries:     2,
		RetryDelay:     500 * time.Millisecond,
		MaxRetryDelay:  5 * time.Second,
		MaxConcurrent:  4,
		CacheTTL:       10 * time.Minute,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithProvider(ProviderGemini),
//	    WithEmbeddingModel("gemini-embedding-001"),
//	    WithDimension(768),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// For the openai provider it adds the /v1 suffix to the host if missing,
// which is required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == ProviderOpenAI && c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Provider {
	case ProviderOpenAI:
		if c.EmbeddingHost == "" {
			return errors.New("ai config: EmbeddingHost is required")
		}
	case ProviderGemini:
		if c.APIKey == "" || c.APIKey == "none" {
			return errors.New("ai config: APIKey is required for gemini")
		}
	default:
		return fmt.Errorf("ai config: %w: %q", ErrUnknownProvider, c.Provider)
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.Dimension < 0 {
		return errors.New("ai config: Dimension cannot be negative")
	}
	if c.MaxRetries < 0 {
		return errors.New("ai config: MaxRetries cannot be negative")
	}
	if c.MaxConcurrent < 1 {
		return errors.New("ai config: MaxConcurrent must be at least 1")
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("ai config: RequestsPerSecond cannot be negative")
	}
	return nil
}
