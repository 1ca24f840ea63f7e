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

package search

import "errors"

var (
	// ErrInvalidConfig is returned when search weights are out of range or
	// don't sum to one.
	ErrInvalidConfig = errors.New("invalid search config")

	// ErrUnknownMode is returned for an unrecognized search mode name.
	ErrUnknownMode = errors.New("unknown search mode")

	// ErrSnapshotSourceRequired is returned when a snapshot source is not provided.
	ErrSnapshotSourceRequired = errors.New("snapshot source required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
