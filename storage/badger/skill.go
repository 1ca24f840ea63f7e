package badger

import (
	"context"
	"iter"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/bobmatnyc/mcp-skillkit/storage"
)

// SkillRepository implements storage.SkillRepository for BadgerDB.
type SkillRepository struct {
	backend *Backend
}

var _ storage.SkillRepository = (*SkillRepository)(nil)

// NewSkillRepository creates a new SkillRepository.
func NewSkillRepository(backend *Backend) (*SkillRepository, error) {
	return &SkillRepository{
		backend: backend,
	}, nil
}

// Close releases resources. SkillRepository has no resources to release.
func (r *SkillRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *SkillRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutSkills inserts or replaces skills by Id. The whole batch is validated
// before anything is written.
func (r *SkillRepository) PutSkills(ctx context.Context, skills ...*core.Skill) error {
	for _, skill := range skills {
		if err := core.ValidateSkill(skill); err != nil {
			return err
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, skill := range skills {
			key := makeSkillKey(skill.Id)

			// Read old record to clean up index entries on category or
			// repository changes.
			old, err := readSkill(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				if old.RepoId != skill.RepoId {
					if err := tx.Delete(makeSkillRepoKey(old.RepoId, old.Id)); err != nil {
						return err
					}
				}
				if old.Category != skill.Category {
					if err := tx.Delete(makeSkillCategoryKey(old.Category, old.Id)); err != nil {
						return err
					}
				}
			}

			value := storage.MarshalSkill(skill)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			if err := tx.Set(makeSkillRepoKey(skill.RepoId, skill.Id), nil); err != nil {
				return err
			}
			if err := tx.Set(makeSkillCategoryKey(skill.Category, skill.Id), nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetSkill retrieves a single skill by Id.
func (r *SkillRepository) GetSkill(ctx context.Context, id string) (*core.Skill, error) {
	var result *core.Skill
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readSkill(tx, makeSkillKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetSkills retrieves multiple skills by Id. Missing ids are skipped.
func (r *SkillRepository) GetSkills(ctx context.Context, ids ...string) ([]*core.Skill, error) {
	var result []*core.Skill
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			skill, err := readSkill(tx, makeSkillKey(id))
			if err != nil {
				return err
			}
			if skill != nil {
				result = append(result, skill)
			}
		}
		return nil
	}, false)
	return result, err
}

// Skills returns a restartable lazy sequence of skills matching the filter,
// ordered by Id. Each iteration runs in its own read transaction.
func (r *SkillRepository) Skills(ctx context.Context, filter storage.Filter) iter.Seq2[*core.Skill, error] {
	return func(yield func(*core.Skill, error) bool) {
		stopped := false
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.PrefetchValues = true
			it := tx.NewIterator(opts)
			defer it.Close()

			prefix := []byte(skillRecordPrefix + ":")
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if err := ctx.Err(); err != nil {
					return err
				}

				var skill *core.Skill
				err := it.Item().Value(func(val []byte) error {
					var err error
					skill, err = storage.UnmarshalSkill(val)
					return err
				})
				if err != nil {
					return err
				}

				if !filter.Matches(skill) {
					continue
				}
				if !yield(skill, nil) {
					stopped = true
					return nil
				}
			}
			return nil
		}, false)
		if err != nil && !stopped {
			yield(nil, err)
		}
	}
}

// ListSkills collects the matching skills into a slice, ordered by Id.
func (r *SkillRepository) ListSkills(ctx context.Context, filter storage.Filter) ([]*core.Skill, error) {
	var results []*core.Skill
	for skill, err := range r.Skills(ctx, filter) {
		if err != nil {
			return nil, err
		}
		results = append(results, skill)
	}
	return results, nil
}

// DeleteSkills removes skills by Id, along with their index entries and
// vector records. Missing ids are ignored.
func (r *SkillRepository) DeleteSkills(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := deleteSkill(tx, id); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteSkillsByRepo removes every skill belonging to a repository and
// returns the number of skills deleted.
func (r *SkillRepository) DeleteSkillsByRepo(ctx context.Context, repoId string) (int, error) {
	var deleted int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Collect ids first: deleting while iterating invalidates the
		// iterator.
		var ids []string
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := tx.NewIterator(opts)

		prefix := makePartialSkillRepoKey(repoId)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, key[len(prefix):])
		}
		it.Close()

		for _, id := range ids {
			if err := deleteSkill(tx, id); err != nil {
				return err
			}
		}
		deleted = len(ids)
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// ListCategories returns the distinct categories of stored skills, sorted
// ascending.
func (r *SkillRepository) ListCategories(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := tx.NewIterator(opts)
		defer it.Close()

		prefix := []byte(skillCategoryPrefix + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rest := string(it.Item().Key()[len(prefix):])
			if idx := strings.IndexByte(rest, ':'); idx >= 0 {
				seen[rest[:idx]] = true
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories, nil
}

// deleteSkill removes a skill record together with its index entries and
// vector record. Missing skills are a no-op.
func deleteSkill(tx *badger.Txn, id string) error {
	key := makeSkillKey(id)
	skill, err := readSkill(tx, key)
	if err != nil {
		return err
	}
	if skill == nil {
		return nil
	}

	if err := tx.Delete(makeSkillRepoKey(skill.RepoId, skill.Id)); err != nil {
		return err
	}
	if err := tx.Delete(makeSkillCategoryKey(skill.Category, skill.Id)); err != nil {
		return err
	}
	if err := tx.Delete(makeVectorKey(skill.Id)); err != nil {
		return err
	}
	return tx.Delete(key)
}

// readSkill reads a skill from the transaction.
func readSkill(tx *badger.Txn, key []byte) (*core.Skill, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var skill *core.Skill
	err = item.Value(func(val []byte) error {
		var err error
		skill, err = storage.UnmarshalSkill(val)
		return err
	})
	return skill, err
}
