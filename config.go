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

package claimlens

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/claimlens/ai"
	"github.com/poiesic/claimlens/indexer"
	"github.com/poiesic/claimlens/ranking"
	"github.com/poiesic/claimlens/render"
	"github.com/poiesic/claimlens/resilience"
	"github.com/poiesic/claimlens/search"
	"github.com/poiesic/claimlens/semantic"
)

// Environment variables consulted for the provider API key, in order.
const (
	EnvAPIKey       = "CLAIMLENS_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Config aggregates the configuration of every component.
type Config struct {
	// DataDir holds the claim store and, unless AuditPath is set, the audit log.
	DataDir string `yaml:"data_dir"`

	// AuditPath is the SQLite query log. Defaults to DataDir/audit.db.
	AuditPath string `yaml:"audit_path"`

	AI      *ai.Config     `yaml:"ai"`
	Ranking ranking.Config `yaml:"ranking"`
	Render  render.Config  `yaml:"render"`
	Indexer indexer.Config `yaml:"indexer"`

	// CandidateLimit caps text search candidates scored per query. Zero
	// scores every match; a positive cap makes ranking approximate.
	CandidateLimit int `yaml:"candidate_limit"`

	// SemanticTopK is the number of chunks returned by semantic search.
	SemanticTopK int `yaml:"semantic_top_k"`

	// Retry bounds retries of idempotent store reads and query embeddings.
	Retry resilience.Policy `yaml:"retry"`
}

// DefaultConfig returns a Config with every component at its defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir:        "claimlens-data",
		AI:             ai.DefaultConfig(),
		Ranking:        ranking.DefaultConfig(),
		Render:         render.DefaultConfig(),
		Indexer:        indexer.DefaultConfig(),
		CandidateLimit: search.DefaultCandidateLimit,
		SemanticTopK:   semantic.DefaultTopK,
		Retry:          resilience.DefaultPolicy(),
	}
}

// LoadConfig reads a YAML file over the defaults, applies API keys from the
// environment and validates the result. An empty path loads defaults only.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv sets the provider API key from the environment when one is set.
func (c *Config) ApplyEnv() {
	if c.AI == nil {
		c.AI = ai.DefaultConfig()
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.AI.APIKey = key
		return
	}
	var key string
	switch c.AI.Provider {
	case ai.ProviderGemini:
		key = os.Getenv(EnvGeminiAPIKey)
	case ai.ProviderOpenAI:
		key = os.Getenv(EnvOpenAIAPIKey)
	}
	if key != "" {
		c.AI.APIKey = key
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("config: data_dir is required")
	}
	if c.AI == nil {
		return errors.New("config: ai section is required")
	}
	if err := c.AI.Validate(); err != nil {
		return err
	}
	if err := c.Ranking.Validate(); err != nil {
		return fmt.Errorf("config: ranking: %w", err)
	}
	if c.CandidateLimit < 0 {
		return fmt.Errorf("config: candidate_limit must not be negative, got %d", c.CandidateLimit)
	}
	if c.SemanticTopK < 1 {
		return fmt.Errorf("config: %w: got %d", semantic.ErrInvalidTopK, c.SemanticTopK)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("config: retry: %w", resilience.ErrInvalidMaxAttempts)
	}
	if c.Indexer.BatchSize < 1 {
		return fmt.Errorf("config: indexer batch_size must be positive, got %d", c.Indexer.BatchSize)
	}
	return nil
}

// ClaimsPath is the badger directory holding claims and chunks.
func (c *Config) ClaimsPath() string {
	return filepath.Join(c.DataDir, "claims")
}

// AuditLogPath is the SQLite query log location.
func (c *Config) AuditLogPath() string {
	if c.AuditPath != "" {
		return c.AuditPath
	}
	return filepath.Join(c.DataDir, "audit.db")
}
