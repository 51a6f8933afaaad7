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


// Package ai provides the embedding abstractions used by claimlens.
//
// The semantic retriever and the chunk indexer depend only on the Embedder
// interface defined here, never on a concrete provider.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs through langchaingo (OpenAI, Ollama, vLLM)
//   - ai/gemini: the Gemini API through google.golang.org/genai
//   - ai/mock: test doubles for unit testing without external dependencies
//
// # Guarding Upstream Calls
//
// Wrap layers two decorators over a provider's embedder:
//
//   - GuardedEmbedder bounds in-flight calls with a weighted semaphore,
//     optionally rate limits, applies a per-attempt timeout and retries
//     failures with bounded exponential backoff.
//   - CachingEmbedder memoizes single-text (query) embeddings for CacheTTL.
//
// # Constructor Return Type Pattern
//
// Public provider constructors (openai.NewProvider, gemini.NewProvider)
// return INTERFACE types to prevent accidental coupling to a concrete
// implementation. Test utility constructors (mock.NewMockEmbedder) return
// CONCRETE types so tests can inject behavior and assert on call counts.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	embedder, err := ai.Wrap(provider.Embedder(), config)
//	vector, err := embedder.EmbedText(ctx, "why was my claim denied")
package ai
