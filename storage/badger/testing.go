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

package badger

import "github.com/bobmatnyc/mcp-skillkit/storage"

// NewMemoryStores creates in-memory skill, repository, and vector stores for
// testing. Returns skillRepo, repoStore, vectorRepo, backend, and error.
// Caller must close the repos and backend when done.
func NewMemoryStores() (storage.SkillRepository, storage.RepositoryStore, storage.VectorRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	skillRepo, err := NewSkillRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	repoStore, err := NewRepositoryStore(backend)
	if err != nil {
		skillRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	vectorRepo, err := NewVectorRepository(backend)
	if err != nil {
		repoStore.Close()
		skillRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	return skillRepo, repoStore, vectorRepo, backend, nil
}
