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


// Package storage provides the storage abstraction layer for claimlens.
//
// This package defines repository interfaces that decouple persistence from
// retrieval and ranking. The search engine only sees these interfaces:
//
//   - ClaimRepository: authoritative claim records plus filtered full-text search
//   - ChunkRepository: precomputed semantic chunks, one per claim
//   - AuditLog: append-only query log
//
// Two backends ship with the module. The badger subpackage stores claims and
// chunks in an embedded BadgerDB and maintains a BM25 postings index next to
// the records. The sqlite subpackage stores the audit log.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	claims, err := badger.NewClaimRepository(backend)
//
// Use in tests with in-memory storage:
//
//	claims, chunks, backend, err := badger.NewMemoryRepositories()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context. Long scans check for
// cancellation between records.
package storage
