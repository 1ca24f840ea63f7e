package storage

import (
	"context"
	"iter"

	"github.com/bobmatnyc/mcp-skillkit/core"
)

// Filter selects skills by metadata. Zero-value fields match everything.
type Filter struct {
	Category string
	Tag      string
	RepoId   string
}

// Matches reports whether a skill satisfies every set field of the filter.
func (f Filter) Matches(skill *core.Skill) bool {
	if f.Category != "" && skill.Category != f.Category {
		return false
	}
	if f.RepoId != "" && skill.RepoId != f.RepoId {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, tag := range skill.Tags {
			if tag == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// SkillRepository is the authoritative store of Skill records.
type SkillRepository interface {
	Repository

	// PutSkills inserts or replaces skills by Id. Every skill is validated
	// first; a validation failure rejects the whole batch and nothing is
	// written.
	PutSkills(ctx context.Context, skills ...*core.Skill) error

	// GetSkill retrieves a single skill by Id.
	// Returns ErrNotFound if the skill doesn't exist.
	GetSkill(ctx context.Context, id string) (*core.Skill, error)

	// GetSkills retrieves multiple skills by Id.
	// Returns only the skills that exist (no error for missing skills).
	GetSkills(ctx context.Context, ids ...string) ([]*core.Skill, error)

	// Skills returns a restartable lazy sequence of skills matching the
	// filter, ordered by Id. Each iteration runs in its own read
	// transaction; the sequence may be ranged over more than once.
	Skills(ctx context.Context, filter Filter) iter.Seq2[*core.Skill, error]

	// ListSkills collects the matching skills into a slice, ordered by Id.
	ListSkills(ctx context.Context, filter Filter) ([]*core.Skill, error)

	// DeleteSkills removes skills by Id, along with their vector records.
	// Missing ids are ignored.
	DeleteSkills(ctx context.Context, ids ...string) error

	// DeleteSkillsByRepo removes every skill belonging to a repository and
	// returns the number of skills deleted. Used when a repository is
	// dropped.
	DeleteSkillsByRepo(ctx context.Context, repoId string) (int, error)

	// ListCategories returns the distinct categories of stored skills,
	// sorted ascending.
	ListCategories(ctx context.Context) ([]string, error)
}

// RepositoryStore manages skill repository metadata.
type RepositoryStore interface {
	Repository

	// PutRepository inserts or replaces a repository record by Id.
	PutRepository(ctx context.Context, repo *core.Repository) error

	// GetRepository retrieves a repository by Id.
	// Returns ErrNotFound if the repository doesn't exist.
	GetRepository(ctx context.Context, id string) (*core.Repository, error)

	// ListRepositories returns all repositories ordered by priority
	// descending, then Id ascending.
	ListRepositories(ctx context.Context) ([]*core.Repository, error)

	// DeleteRepository removes a repository record.
	// Returns ErrNotFound if the repository doesn't exist.
	DeleteRepository(ctx context.Context, id string) error
}

// VectorRepository persists skill embeddings together with the content
// hash cache consulted by incremental reindexing.
type VectorRepository interface {
	Repository

	// PutVectorRecords inserts or replaces vector records by SkillId.
	PutVectorRecords(ctx context.Context, records ...*core.VectorRecord) error

	// GetVectorRecord retrieves the vector record for a skill.
	// Returns ErrNotFound if no record exists.
	GetVectorRecord(ctx context.Context, skillId string) (*core.VectorRecord, error)

	// ListVectorRecords returns all vector records ordered by SkillId.
	ListVectorRecords(ctx context.Context) ([]*core.VectorRecord, error)

	// DeleteVectorRecords removes vector records by SkillId.
	// Missing ids are ignored.
	DeleteVectorRecords(ctx context.Context, skillIds ...string) error
}
