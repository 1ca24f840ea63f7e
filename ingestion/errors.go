package ingestion

import "errors"

var (
	// ErrMissingFrontMatter is returned when a skill file has no YAML front matter.
	ErrMissingFrontMatter = errors.New("missing frontmatter")

	// ErrMissingName is returned when the frontmatter has no name field.
	ErrMissingName = errors.New("skill name is required in frontmatter")

	// ErrMissingDescription is returned when the frontmatter has no description field.
	ErrMissingDescription = errors.New("skill description is required in frontmatter")

	// ErrSkillRepositoryRequired is returned when no skill repository is provided.
	ErrSkillRepositoryRequired = errors.New("skill repository is required")

	// ErrRepositoryStoreRequired is returned when no repository store is provided.
	ErrRepositoryStoreRequired = errors.New("repository store is required")

	// ErrNoLocalPath is returned when a repository has no local checkout to scan.
	ErrNoLocalPath = errors.New("repository has no local path")
)
