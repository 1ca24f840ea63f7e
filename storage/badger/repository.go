package badger

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/bobmatnyc/mcp-skillkit/storage"
)

// RepositoryStore implements storage.RepositoryStore for BadgerDB.
type RepositoryStore struct {
	backend *Backend
}

var _ storage.RepositoryStore = (*RepositoryStore)(nil)

// NewRepositoryStore creates a new RepositoryStore.
func NewRepositoryStore(backend *Backend) (*RepositoryStore, error) {
	return &RepositoryStore{
		backend: backend,
	}, nil
}

// Close releases resources. RepositoryStore has no resources to release.
func (r *RepositoryStore) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *RepositoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutRepository inserts or replaces a repository record by Id.
func (r *RepositoryStore) PutRepository(ctx context.Context, repo *core.Repository) error {
	if err := core.ValidateRepository(repo); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		value := storage.MarshalRepository(repo)
		if err := tx.Set(makeRepositoryKey(repo.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetRepository retrieves a repository by Id.
func (r *RepositoryStore) GetRepository(ctx context.Context, id string) (*core.Repository, error) {
	var result *core.Repository
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRepositoryKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalRepository(val)
			return err
		})
	}, false)
	return result, err
}

// ListRepositories returns all repositories ordered by priority descending,
// then Id ascending.
func (r *RepositoryStore) ListRepositories(ctx context.Context) ([]*core.Repository, error) {
	var results []*core.Repository
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := tx.NewIterator(opts)
		defer it.Close()

		prefix := []byte(repositoryRecordPrefix + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var repo *core.Repository
			err := it.Item().Value(func(val []byte) error {
				var err error
				repo, err = storage.UnmarshalRepository(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, repo)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Priority != results[j].Priority {
			return results[i].Priority > results[j].Priority
		}
		return results[i].Id < results[j].Id
	})
	return results, nil
}

// DeleteRepository removes a repository record.
func (r *RepositoryStore) DeleteRepository(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRepositoryKey(id)
		if _, err := tx.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
