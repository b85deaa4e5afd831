package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vowvector/core"
	"github.com/poiesic/vowvector/graph"
)

// Repository implements graph.Repository for BadgerDB.
type Repository struct {
	backend *Backend
}

var _ graph.Repository = (*Repository)(nil)

// NewRepository creates a new Repository.
func NewRepository(backend *Backend) (*Repository, error) {
	return &Repository{backend: backend}, nil
}

// Close releases resources. The backend itself is closed by its owner.
func (r *Repository) Close() error {
	return nil
}

// CreateNode persists a new node and its creation-time index entry.
func (r *Repository) CreateNode(ctx context.Context, record *core.NodeRecord) (*core.NodeRecord, error) {
	if err := core.ValidateNodeRecord(record); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeNodeKey(record.Id)

		existing, err := readNodeRecord(tx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			return graph.ErrDuplicateId
		}

		record.CreatedAt = time.Now().UTC()
		record.UpdatedAt = record.CreatedAt
		record.Tags = core.NormalizeTags(record.Tags)
		if record.Metadata == nil {
			record.Metadata = map[string]string{}
		}

		if err := tx.Set(key, graph.MarshalNodeRecord(record)); err != nil {
			return err
		}

		createdKey := makeNodeCreatedKey(record.CreatedAt, record.Id)
		if err := tx.Set(createdKey, []byte(record.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetNode retrieves a node by id.
func (r *Repository) GetNode(ctx context.Context, id string) (*core.NodeRecord, error) {
	var record *core.NodeRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = readNodeRecord(tx, makeNodeKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, graph.ErrNotFound
	}
	return record, nil
}

// UpdateNode applies a patch to an existing node.
func (r *Repository) UpdateNode(ctx context.Context, id string, patch *core.NodePatch) (*core.NodeRecord, error) {
	if err := core.ValidateNodePatch(patch); err != nil {
		return nil, err
	}

	var record *core.NodeRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeNodeKey(id)

		existing, err := readNodeRecord(tx, key)
		if err != nil {
			return err
		}
		if existing == nil {
			return graph.ErrNotFound
		}

		record = existing
		if patch != nil {
			if patch.Title != nil {
				record.Title = *patch.Title
			}
			if patch.Content != nil {
				record.Content = *patch.Content
			}
			if patch.Type != nil {
				record.Type = *patch.Type
			}
			if patch.Tags != nil {
				record.Tags = core.NormalizeTags(patch.Tags)
			}
			if len(patch.Metadata) > 0 {
				record.Metadata = core.MergeMetadata(record.Metadata, patch.Metadata)
			}
		}
		record.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, graph.MarshalNodeRecord(record)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// DeleteNode removes a node, its creation index entry, and every
// relationship where the node is source or target.
func (r *Repository) DeleteNode(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeNodeKey(id)

		record, err := readNodeRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return graph.ErrNotFound
		}

		if err := tx.Delete(key); err != nil {
			return err
		}
		if err := tx.Delete(makeNodeCreatedKey(record.CreatedAt, record.Id)); err != nil {
			return err
		}

		if err := deleteIncidentRelationships(tx, id); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// ListNodes returns nodes ordered by creation time descending.
func (r *Repository) ListNodes(ctx context.Context, opts graph.ListOptions) ([]*core.NodeRecord, error) {
	var results []*core.NodeRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Reverse = true

		iter := tx.NewIterator(iterOpts)
		defer iter.Close()

		// Seek past the newest possible index entry, then walk backwards.
		startKey := makeNodeCreatedKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC), "")
		prefix := []byte(nodeCreatedPrefix + ":")

		skipped := 0
		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var nodeID string
			if err := iter.Item().Value(func(val []byte) error {
				nodeID = string(val)
				return nil
			}); err != nil {
				return err
			}

			record, err := readNodeRecord(tx, makeNodeKey(nodeID))
			if err != nil {
				return err
			}
			if record == nil {
				continue
			}
			if opts.Type != nil && record.Type != *opts.Type {
				continue
			}
			if skipped < opts.Offset {
				skipped++
				continue
			}

			results = append(results, record)
			if opts.Limit > 0 && len(results) >= opts.Limit {
				break
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// readNodeRecord reads and unmarshals a node record within a transaction.
// Returns nil (not an error) when the key is absent.
func readNodeRecord(tx *badger.Txn, key []byte) (*core.NodeRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.NodeRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = graph.UnmarshalNodeRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
