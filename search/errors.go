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

package search

import "errors"

var (
	// ErrClaimRepositoryRequired is returned when a claim repository is not provided.
	ErrClaimRepositoryRequired = errors.New("claim repository required")

	// ErrRendererRequired is returned when a renderer is not provided.
	ErrRendererRequired = errors.New("renderer required")

	// ErrRankerRequired is returned when a ranker is not provided.
	ErrRankerRequired = errors.New("ranker required")

	// ErrRetrieverRequired is returned by Semantic when no retriever was configured.
	ErrRetrieverRequired = errors.New("semantic retriever required")

	// ErrUpstream wraps failures of the store or the embedding provider.
	ErrUpstream = errors.New("upstream failure")

	// ErrInvalidListLimit is returned for a negative list limit.
	ErrInvalidListLimit = errors.New("list limit must not be negative")
)
