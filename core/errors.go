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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidSkill indicates a Skill failed validation.
	ErrInvalidSkill = errors.New("invalid skill")

	// ErrInvalidRepository indicates a Repository failed validation.
	ErrInvalidRepository = errors.New("invalid repository")

	// ErrEmptySkillId indicates the skill Id field is empty.
	ErrEmptySkillId = errors.New("skill id cannot be empty")

	// ErrEmptyName indicates the skill Name field is empty.
	ErrEmptyName = errors.New("skill name cannot be empty")

	// ErrShortDescription indicates the Description field is too short.
	ErrShortDescription = errors.New("skill description must be at least 10 characters")

	// ErrShortInstructions indicates the Instructions field is too short.
	ErrShortInstructions = errors.New("skill instructions must be at least 50 characters")

	// ErrEmptyCategory indicates the skill Category field is empty.
	ErrEmptyCategory = errors.New("skill category cannot be empty")

	// ErrEmptyRepoId indicates the skill RepoId field is empty.
	ErrEmptyRepoId = errors.New("skill repo id cannot be empty")

	// ErrReservedCharacter indicates a field contains ':', which separates
	// storage key segments.
	ErrReservedCharacter = errors.New("field must not contain ':'")

	// ErrEmptyRepositoryId indicates the repository Id field is empty.
	ErrEmptyRepositoryId = errors.New("repository id cannot be empty")

	// ErrEmptyRepositoryUrl indicates the repository has neither a Url nor
	// a LocalPath.
	ErrEmptyRepositoryUrl = errors.New("repository must have a url or local path")
)
