package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/bobmatnyc/mcp-skillkit/storage"
)

// VectorRepository implements storage.VectorRepository for BadgerDB.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
func NewVectorRepository(backend *Backend) (*VectorRepository, error) {
	return &VectorRepository{
		backend: backend,
	}, nil
}

// Close releases resources. VectorRepository has no resources to release.
func (r *VectorRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *VectorRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutVectorRecords inserts or replaces vector records by SkillId.
func (r *VectorRepository) PutVectorRecords(ctx context.Context, records ...*core.VectorRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			value := storage.MarshalVectorRecord(record)
			if err := tx.Set(makeVectorKey(record.SkillId), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetVectorRecord retrieves the vector record for a skill.
func (r *VectorRepository) GetVectorRecord(ctx context.Context, skillId string) (*core.VectorRecord, error) {
	var result *core.VectorRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(skillId))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalVectorRecord(val)
			return err
		})
	}, false)
	return result, err
}

// ListVectorRecords returns all vector records ordered by SkillId.
func (r *VectorRepository) ListVectorRecords(ctx context.Context) ([]*core.VectorRecord, error) {
	var results []*core.VectorRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := tx.NewIterator(opts)
		defer it.Close()

		prefix := []byte(vectorRecordPrefix + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record *core.VectorRecord
			err := it.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalVectorRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteVectorRecords removes vector records by SkillId. Missing ids are
// ignored.
func (r *VectorRepository) DeleteVectorRecords(ctx context.Context, skillIds ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, skillId := range skillIds {
			if err := tx.Delete(makeVectorKey(skillId)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
