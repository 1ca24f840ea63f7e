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

import (
	"fmt"
	"strings"
)

const (
	minDescriptionLen  = 10
	minInstructionsLen = 50
)

// ValidateSkill validates a Skill according to domain rules.
//
// Validation rules:
//   - Id, Name, Category and RepoId must not be empty
//   - Category and RepoId must not contain ':' (storage key separator)
//   - Description must be at least 10 characters
//   - Instructions must be at least 50 characters
//
// NOT validated:
//   - Tags, Dependencies, Examples (optional metadata)
//   - FilePath (skills may be constructed in memory)
func ValidateSkill(skill *Skill) error {
	if skill == nil {
		return fmt.Errorf("%w: skill is nil", ErrInvalidSkill)
	}

	if skill.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSkill, ErrEmptySkillId)
	}

	if skill.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSkill, ErrEmptyName)
	}

	if len(skill.Description) < minDescriptionLen {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidSkill, ErrShortDescription, len(skill.Description))
	}

	if len(skill.Instructions) < minInstructionsLen {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidSkill, ErrShortInstructions, len(skill.Instructions))
	}

	if skill.Category == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSkill, ErrEmptyCategory)
	}
	if strings.ContainsRune(skill.Category, ':') {
		return fmt.Errorf("%w: %w (category %q)", ErrInvalidSkill, ErrReservedCharacter, skill.Category)
	}

	if skill.RepoId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSkill, ErrEmptyRepoId)
	}
	if strings.ContainsRune(skill.RepoId, ':') {
		return fmt.Errorf("%w: %w (repo id %q)", ErrInvalidSkill, ErrReservedCharacter, skill.RepoId)
	}

	return nil
}

// ValidateRepository validates a Repository according to domain rules.
func ValidateRepository(repo *Repository) error {
	if repo == nil {
		return fmt.Errorf("%w: repository is nil", ErrInvalidRepository)
	}

	if repo.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, ErrEmptyRepositoryId)
	}
	if strings.ContainsRune(repo.Id, ':') {
		return fmt.Errorf("%w: %w (id %q)", ErrInvalidRepository, ErrReservedCharacter, repo.Id)
	}

	if repo.Url == "" && repo.LocalPath == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, ErrEmptyRepositoryUrl)
	}

	return nil
}
