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


// Package search answers claim questions and composes the response envelope.
//
// Searcher.Ask routes a query through three paths:
//   - a claim number anywhere in the text resolves that one claim and
//     renders a templated answer with full confidence
//   - text shorter than two characters gets a prompt, with no store or
//     provider calls
//   - everything else runs a filtered full-text search whose candidates
//     are re-scored by the ranking package
//
// Searcher.Semantic is the separate embedding path backed by the semantic
// package. Every answered query, including failed ones, is written to the
// audit log with its latency.
package search
