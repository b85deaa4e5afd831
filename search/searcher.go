package search

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"

	"github.com/poiesic/vowvector/ai"
	"github.com/poiesic/vowvector/core"
	"github.com/poiesic/vowvector/graph"
	"github.com/poiesic/vowvector/vector"
)

// DefaultLimit is the result cap used when a query doesn't set one.
const DefaultLimit = 10

// overfetchFactor compensates for chunk-level hits collapsing onto the same
// node during merging.
const overfetchFactor = 2

// Searcher runs semantic queries over the vector store and resolves every
// hit against the graph store, which stays authoritative: a vector entry
// whose node is gone is silently skipped, never surfaced.
type Searcher struct {
	repo     graph.NodeRepository
	store    vector.Store
	embedder ai.Embedder
	logger   *slog.Logger
	monitor  Monitor
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMonitor sets a search monitor for observing intermediate steps.
func WithMonitor(monitor Monitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// NewSearcher creates a searcher over a graph repository, a vector store,
// and an embedder.
func NewSearcher(
	repo graph.NodeRepository,
	store vector.Store,
	embedder ai.Embedder,
	opts ...Option,
) (*Searcher, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		repo:     repo,
		store:    store,
		embedder: embedder,
		logger:   slog.Default(),
		monitor:  &noopMonitor{},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Query describes a semantic search.
type Query struct {
	// Text is the query text. Required.
	Text string
	// Type narrows the search to one node type's collection when non-nil.
	Type *core.NodeType
	// Tags keeps only nodes carrying every listed tag.
	Tags []string
	// Limit caps the number of results. DefaultLimit when <= 0.
	Limit int
}

// nodeHit accumulates the best chunk-level match for one node.
type nodeHit struct {
	score      float32
	chunkIndex int
}

// Search embeds the query, fans out across the relevant collections, merges
// chunk hits to their best-scoring node, and resolves each node from the
// graph store.
func (s *Searcher) Search(ctx context.Context, q Query) ([]*Result, error) {
	if q.Text == "" {
		return nil, ErrEmptyQuery
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.monitor.Start(q.Text)

	collections, err := q.collections()
	if err != nil {
		return nil, err
	}
	if len(collections) == 0 {
		return nil, nil
	}

	queryVec, err := s.embedder.EmbedText(ctx, q.Text)
	if err != nil {
		s.logger.Error("query embedding failed", "err", err)
		return nil, err
	}
	s.monitor.AfterQueryEmbedding(len(queryVec))

	hits := make(map[string]nodeHit)
	for _, collection := range collections {
		matches, err := s.store.Search(ctx, collection, queryVec, limit*overfetchFactor)
		if err != nil {
			if errors.Is(err, vector.ErrCollectionNotFound) {
				continue // never written to, nothing to find
			}
			return nil, err
		}
		s.monitor.AfterCollectionSearch(collection, matches)
		mergeMatches(hits, matches)
	}

	results, err := s.resolve(ctx, hits, q.Tags)
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Node.Id < results[j].Node.Id
	})
	if len(results) > limit {
		results = results[:limit]
	}

	s.monitor.Finish(results)
	s.logger.Debug("search finished", "query_len", len(q.Text), "results", len(results))
	return results, nil
}

// collections resolves which vector collections the query touches.
func (q Query) collections() ([]string, error) {
	if q.Type == nil {
		return core.Collections(), nil
	}
	if !q.Type.Valid() {
		return nil, core.ErrUnknownNodeType
	}
	collection, ok := q.Type.Collection()
	if !ok {
		return nil, nil // type never embeds, nothing can match
	}
	return []string{collection}, nil
}

// mergeMatches folds chunk-level matches into per-node best scores.
func mergeMatches(hits map[string]nodeHit, matches []vector.Match) {
	for _, m := range matches {
		nodeID := m.Payload["node_id"]
		if nodeID == "" {
			continue
		}
		chunkIndex, _ := strconv.Atoi(m.Payload["chunk_index"])
		if prev, ok := hits[nodeID]; !ok || m.Score > prev.score {
			hits[nodeID] = nodeHit{score: m.Score, chunkIndex: chunkIndex}
		}
	}
}

// resolve looks every hit node up in the graph store and applies the tag
// filter. Orphaned vector entries (node deleted, cleanup failed) are skipped.
func (s *Searcher) resolve(ctx context.Context, hits map[string]nodeHit, tags []string) ([]*Result, error) {
	results := make([]*Result, 0, len(hits))
	for nodeID, hit := range hits {
		node, err := s.repo.GetNode(ctx, nodeID)
		if err != nil {
			if errors.Is(err, graph.ErrNotFound) {
				s.logger.Debug("skipping orphaned vector entry", "node_id", nodeID)
				s.monitor.SkippedOrphan(core.VectorID(nodeID, hit.chunkIndex), nodeID)
				continue
			}
			return nil, err
		}
		if !hasAllTags(node.Tags, tags) {
			continue
		}
		results = append(results, &Result{
			Node:       node,
			Score:      hit.score,
			ChunkIndex: hit.chunkIndex,
		})
	}
	return results, nil
}

func hasAllTags(nodeTags, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	set := make(map[string]bool, len(nodeTags))
	for _, t := range nodeTags {
		set[t] = true
	}
	for _, t := range wanted {
		if !set[t] {
			return false
		}
	}
	return true
}
