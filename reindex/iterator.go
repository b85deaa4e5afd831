package reindex

import (
	"context"

	"github.com/poiesic/vowvector/core"
	"github.com/poiesic/vowvector/graph"
)

// NodeIterator pages through every node in the graph store in fixed-size
// batches.
type NodeIterator struct {
	repo      graph.NodeRepository
	batchSize int
}

// NewNodeIterator creates an iterator with the given batch size.
func NewNodeIterator(repo graph.NodeRepository, batchSize int) *NodeIterator {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &NodeIterator{repo: repo, batchSize: batchSize}
}

// ForEach invokes fn for each batch of nodes until the store is exhausted
// or fn returns an error.
func (it *NodeIterator) ForEach(ctx context.Context, fn func(nodes []*core.NodeRecord) error) error {
	offset := 0
	for {
		batch, err := it.repo.ListNodes(ctx, graph.ListOptions{Offset: offset, Limit: it.batchSize})
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}

		if len(batch) < it.batchSize {
			return nil
		}
		offset += len(batch)
	}
}
