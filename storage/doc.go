// Copyright 2025 Bob Matsuoka
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


// Package storage provides the storage abstraction layer for mcp-skillkit.
//
// This package defines repository interfaces that decouple storage
// implementation from the indexing and search logic. It allows different
// storage backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Backend packages return concrete types from their constructors; code
// that consumes storage declares the interface:
//
//	var skills storage.SkillRepository
//	skills, err = badger.NewSkillRepository(backend)
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - SkillRepository: authoritative store of skill records
//   - RepositoryStore: skill repository (provenance) metadata
//   - VectorRepository: persisted embeddings plus the per-skill
//     content-hash cache used for incremental reindex decisions
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
