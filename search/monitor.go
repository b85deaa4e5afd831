package search

import (
	"github.com/poiesic/vowvector/core"
	"github.com/poiesic/vowvector/vector"
)

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps during a search.
type Monitor interface {
	Start(query string)
	AfterQueryEmbedding(dimensions int)
	AfterCollectionSearch(collection string, matches []vector.Match)
	SkippedOrphan(vectorID, nodeID string)
	Finish(results []*Result)
}

// noopMonitor is a no-op implementation of Monitor.
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                  {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)                       {}
func (n *noopMonitor) AfterCollectionSearch(_ string, _ []vector.Match) {}
func (n *noopMonitor) SkippedOrphan(_, _ string)                       {}
func (n *noopMonitor) Finish(_ []*Result)                              {}

// Result is a single search hit: the authoritative node resolved from the
// graph store plus the best chunk-level similarity that surfaced it.
type Result struct {
	Node       *core.NodeRecord
	Score      float32
	ChunkIndex int
}
