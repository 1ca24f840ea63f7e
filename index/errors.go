package index

import "errors"

var (
	// ErrReindexInProgress is returned when a reindex is requested while
	// another one is still running.
	ErrReindexInProgress = errors.New("reindex already in progress")

	// ErrReindexTimeout is returned when a reindex exceeds its time budget.
	// The previously published snapshot remains in effect.
	ErrReindexTimeout = errors.New("reindex timed out")

	// ErrSkillRepositoryRequired is returned when no skill repository is provided.
	ErrSkillRepositoryRequired = errors.New("skill repository is required")

	// ErrVectorRepositoryRequired is returned when no vector repository is provided.
	ErrVectorRepositoryRequired = errors.New("vector repository is required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
