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

// Package search ranks skills against free-form queries.
//
// The Searcher type blends two signals read from an index snapshot:
//   - Vector similarity between the query embedding and skill embeddings
//   - Graph propagation outward from the best vector matches
//
// The blend is controlled by a Config whose weights must sum to one; named
// presets cover the common weightings. When the vector weight is zero the
// searcher falls back to keyword matching with stop-word filtering to seed
// graph propagation, so graph-only search works without an embedding
// service.
//
// Results are deterministic: equal scores are broken by skill id.
package search
