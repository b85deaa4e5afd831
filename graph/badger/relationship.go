package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vowvector/core"
	"github.com/poiesic/vowvector/graph"
)

// CreateRelationship persists an edge after verifying both endpoints exist.
func (r *Repository) CreateRelationship(ctx context.Context, rel *core.Relationship) (*core.Relationship, error) {
	if err := core.ValidateRelationship(rel); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range []string{rel.SourceId, rel.TargetId} {
			node, err := readNodeRecord(tx, makeNodeKey(id))
			if err != nil {
				return err
			}
			if node == nil {
				return graph.ErrNotFound
			}
		}

		rel.CreatedAt = time.Now().UTC()
		if rel.Properties == nil {
			rel.Properties = map[string]string{}
		}

		fwdKey := makeRelForwardKey(rel.SourceId, rel.TargetId, rel.Type)
		if err := tx.Set(fwdKey, graph.MarshalRelationship(rel)); err != nil {
			return err
		}

		invKey := makeRelInverseKey(rel.SourceId, rel.TargetId, rel.Type)
		if err := tx.Set(invKey, nil); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return rel, nil
}

// DeleteRelationship removes one edge identified by its full key.
func (r *Repository) DeleteRelationship(ctx context.Context, sourceID, targetID string, relType core.RelationshipType) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		fwdKey := makeRelForwardKey(sourceID, targetID, relType)

		if _, err := tx.Get(fwdKey); err != nil {
			if err == badger.ErrKeyNotFound {
				return graph.ErrNotFound
			}
			return err
		}

		if err := tx.Delete(fwdKey); err != nil {
			return err
		}
		if err := tx.Delete(makeRelInverseKey(sourceID, targetID, relType)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// ListRelationships returns all edges where the node is source or target.
func (r *Repository) ListRelationships(ctx context.Context, nodeID string) ([]*core.Relationship, error) {
	var results []*core.Relationship
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Outgoing edges: full records live under the forward prefix.
		outPrefix := []byte(relForwardPrefix + ":" + nodeID + ":")
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = outPrefix
		iter := tx.NewIterator(iterOpts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var rel *core.Relationship
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				rel, err = graph.UnmarshalRelationship(val)
				return err
			}); err != nil {
				iter.Close()
				return err
			}
			results = append(results, rel)
		}
		iter.Close()

		// Incoming edges: resolve each inverse entry to its forward record.
		inPrefix := []byte(relInversePrefix + ":" + nodeID + ":")
		iterOpts = badger.DefaultIteratorOptions
		iterOpts.Prefix = inPrefix
		iter = tx.NewIterator(iterOpts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			target, source, relType, ok := splitRelKey(iter.Item().Key(), relInversePrefix)
			if !ok {
				continue
			}
			item, err := tx.Get(makeRelForwardKey(source, target, relType))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}
			var rel *core.Relationship
			if err := item.Value(func(val []byte) error {
				var err error
				rel, err = graph.UnmarshalRelationship(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, rel)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// deleteIncidentRelationships removes every edge touching nodeID, both
// directions, including the paired index entries.
func deleteIncidentRelationships(tx *badger.Txn, nodeID string) error {
	// Collect keys first: badger iterators must not observe writes made
	// through the same transaction mid-iteration.
	var toDelete [][]byte

	outPrefix := []byte(relForwardPrefix + ":" + nodeID + ":")
	iterOpts := badger.DefaultIteratorOptions
	iterOpts.Prefix = outPrefix
	iterOpts.PrefetchValues = false
	iter := tx.NewIterator(iterOpts)
	for iter.Rewind(); iter.Valid(); iter.Next() {
		key := iter.Item().KeyCopy(nil)
		toDelete = append(toDelete, key)
		if source, target, relType, ok := splitRelKey(key, relForwardPrefix); ok {
			toDelete = append(toDelete, makeRelInverseKey(source, target, relType))
		}
	}
	iter.Close()

	inPrefix := []byte(relInversePrefix + ":" + nodeID + ":")
	iterOpts = badger.DefaultIteratorOptions
	iterOpts.Prefix = inPrefix
	iterOpts.PrefetchValues = false
	iter = tx.NewIterator(iterOpts)
	for iter.Rewind(); iter.Valid(); iter.Next() {
		key := iter.Item().KeyCopy(nil)
		toDelete = append(toDelete, key)
		if target, source, relType, ok := splitRelKey(key, relInversePrefix); ok {
			toDelete = append(toDelete, makeRelForwardKey(source, target, relType))
		}
	}
	iter.Close()

	for _, key := range toDelete {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
