// Copyright 2025 Poiesic Systems
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


package reindex

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/poiesic/vowvector/ai"
	"github.com/poiesic/vowvector/core"
	"github.com/poiesic/vowvector/graph"
	"github.com/poiesic/vowvector/textproc"
	"github.com/poiesic/vowvector/vector"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of nodes to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of nodes)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Purge drops every vector collection before rebuilding, removing
	// entries orphaned by failed cleanups. Disable to upsert in place.
	Purge bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		Purge:          true,
	}
}

// Stats summarizes a reindex run.
type Stats struct {
	Nodes   int // nodes examined
	Chunks  int // chunk vectors written
	Skipped int // non-embeddable or empty nodes
	Healed  int // nodes whose chunk_count metadata was corrected
}

// Reindexer rebuilds the vector store from the graph store. Because every
// vector id is a deterministic function of (node id, chunk index), the run
// produces exactly the id set ingestion would have produced, demonstrating
// that the vector store is fully derived state.
type Reindexer struct {
	repo     graph.Repository
	store    vector.Store
	embedder ai.Embedder
	chunker  *textproc.Chunker
	config   *Config
	progress io.Writer
	iterator *NodeIterator
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(repo graph.Repository, store vector.Store, embedder ai.Embedder, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reindexer{
		repo:     repo,
		store:    store,
		embedder: embedder,
		chunker:  textproc.DefaultChunker(),
		config:   config,
		progress: progress,
		iterator: NewNodeIterator(repo, config.BatchSize),
	}
}

// Run executes the reindexing operation. Every embeddable node in the graph
// store is re-chunked, re-embedded, and upserted; unlike ingestion, failures
// here are fatal, because a partial rebuild after a purge would lose data
// the degraded-write model promised to recover.
func (r *Reindexer) Run(ctx context.Context) (*Stats, error) {
	all, err := r.repo.ListNodes(ctx, graph.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	total := len(all)
	if total == 0 {
		fmt.Fprintf(r.progress, "No nodes found in database (0 nodes)\n")
		return &Stats{}, nil
	}

	if r.config.Purge {
		for _, collection := range core.Collections() {
			err := RetryWithBackoff(ctx, func() error {
				return r.store.DeleteCollection(ctx, collection)
			}, r.config.MaxRetries, r.config.RetryDelay)
			if err != nil {
				return nil, fmt.Errorf("failed to purge collection %s: %w", collection, err)
			}
		}
		fmt.Fprintf(r.progress, "Purged %d collections\n", len(core.Collections()))
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d nodes (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	stats := &Stats{}
	err = r.iterator.ForEach(ctx, func(nodes []*core.NodeRecord) error {
		for _, node := range nodes {
			if err := r.reindexNode(ctx, node, stats); err != nil {
				return fmt.Errorf("node %s: %w", node.Id, err)
			}
		}
		stats.Nodes += len(nodes)
		tracker.Update(stats.Nodes)
		return nil
	})
	if err != nil {
		return nil, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d nodes, wrote %d vectors in %v (%.1f nodes/sec)\n",
		stats.Nodes, stats.Chunks, elapsed.Round(time.Second), float64(stats.Nodes)/elapsed.Seconds())

	return stats, nil
}

// reindexNode rebuilds one node's vector entries and heals its chunk_count
// metadata if it drifted from the content.
func (r *Reindexer) reindexNode(ctx context.Context, node *core.NodeRecord, stats *Stats) error {
	collection, embeddable := node.Type.Collection()
	chunks := r.chunker.Chunk(node.Content)

	if !embeddable || len(chunks) == 0 {
		stats.Skipped++
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = core.EmbedText(node.Title, chunk)
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = r.embedder.EmbedTexts(ctx, texts)
		return err
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", r.config.MaxRetries, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(vectors))
	}

	points := make([]vector.Point, len(chunks))
	for i := range chunks {
		points[i] = vector.Point{
			ID:     core.VectorID(node.Id, i),
			Vector: vectors[i],
			Payload: map[string]string{
				"node_id":     node.Id,
				"title":       node.Title,
				"node_type":   node.Type.String(),
				"chunk_index": strconv.Itoa(i),
				"chunk_count": strconv.Itoa(len(chunks)),
			},
		}
	}

	err = RetryWithBackoff(ctx, func() error {
		return r.store.Upsert(ctx, collection, points...)
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}
	stats.Chunks += len(points)

	// Without a purge, ids beyond the new chunk count linger from a longer
	// previous version of the node.
	if !r.config.Purge {
		if prevCount := core.MetaInt(node.Metadata, core.MetaChunkCount); prevCount > len(chunks) {
			stale := core.VectorIDs(node.Id, prevCount)[len(chunks):]
			err = RetryWithBackoff(ctx, func() error {
				return r.store.DeleteByIDs(ctx, collection, stale...)
			}, r.config.MaxRetries, r.config.RetryDelay)
			if err != nil {
				return fmt.Errorf("failed to trim stale vectors: %w", err)
			}
		}
	}

	if core.MetaInt(node.Metadata, core.MetaChunkCount) != len(chunks) {
		patch := &core.NodePatch{Metadata: map[string]string{}}
		core.SetDerivedMetadata(patch.Metadata, len(node.Content), len(chunks), textproc.Bucket(len(node.Content)))
		if _, err := r.repo.UpdateNode(ctx, node.Id, patch); err != nil {
			return fmt.Errorf("failed to heal chunk_count metadata: %w", err)
		}
		stats.Healed++
	}

	return nil
}
