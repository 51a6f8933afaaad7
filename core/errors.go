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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidClaim indicates a Claim failed validation.
	ErrInvalidClaim = errors.New("invalid claim")

	// ErrInvalidChunk indicates a ClaimChunk failed validation.
	ErrInvalidChunk = errors.New("invalid claim chunk")

	// ErrInvalidClaimNumber indicates the claim number does not match CLM-YYYY-NNNN.
	ErrInvalidClaimNumber = errors.New("claim number must match CLM-YYYY-NNNN")

	// ErrInvalidStatus indicates an unknown claim status.
	ErrInvalidStatus = errors.New("invalid claim status")

	// ErrNegativeAmount indicates a claim amount below zero.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrEmptyChunkText indicates the chunk Text field is empty.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrEmptyEmbedding indicates a chunk without an embedding vector.
	ErrEmptyEmbedding = errors.New("chunk embedding cannot be empty")

	// ErrInvalidEvent indicates a ClaimEvent failed validation.
	ErrInvalidEvent = errors.New("invalid claim event")

	// ErrEmptyEventType indicates an event without a type.
	ErrEmptyEventType = errors.New("event type cannot be empty")
)
