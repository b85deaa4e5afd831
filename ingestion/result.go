package ingestion

import "github.com/poiesic/vowvector/core"

// Stage names for warnings.
const (
	StageEmbed        = "embed"
	StageVectorUpsert = "vector-upsert"
	StageVectorDelete = "vector-delete"
)

// Warning records a non-fatal failure during the vector phase of an
// operation. ChunkIndex is -1 when the warning is not tied to one chunk.
type Warning struct {
	Stage      string
	ChunkIndex int
	Err        error
}

// Result is the outcome of a pipeline operation. The graph store is
// authoritative: when Degraded is true the node is durably stored but some
// or all of its vector entries are missing or stale. A reindex run repairs
// them.
type Result struct {
	Node     *core.NodeRecord
	Degraded bool
	Warnings []Warning
}

func (r *Result) warn(stage string, chunkIndex int, err error) {
	r.Degraded = true
	r.Warnings = append(r.Warnings, Warning{Stage: stage, ChunkIndex: chunkIndex, Err: err})
}
