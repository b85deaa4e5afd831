package core

//go:generate go run ../cmd/musgen

import (
	"time"
)

// NodeRecord is a single node in the knowledge graph. It is the
// authoritative representation of a piece of ingested content: the graph
// store owns it, and every vector-store entry for the node is derived
// from it via deterministic chunk ids.
type NodeRecord struct {
	Id        string
	Title     string
	Content   string
	Type      NodeType
	Tags      []string          // deduplicated, insertion order preserved
	Metadata  map[string]string // open map; derived keys managed by the pipeline
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NodePatch describes a partial update to a NodeRecord.
// Nil fields are left unchanged.
type NodePatch struct {
	Title    *string
	Content  *string
	Type     *NodeType
	Tags     []string          // nil means unchanged; empty slice clears
	Metadata map[string]string // merged over the existing metadata
}

// Empty reports whether the patch changes nothing.
func (p *NodePatch) Empty() bool {
	return p == nil ||
		(p.Title == nil && p.Content == nil && p.Type == nil &&
			p.Tags == nil && len(p.Metadata) == 0)
}

// ChangesEmbedText reports whether applying the patch can change the text
// that gets embedded (title, content, or the node type, which selects the
// vector collection).
func (p *NodePatch) ChangesEmbedText() bool {
	return p != nil && (p.Title != nil || p.Content != nil || p.Type != nil)
}

// Relationship is a directed, typed edge between two nodes. Multiple
// relationships between the same pair are allowed as long as their types
// differ.
type Relationship struct {
	SourceId   string
	TargetId   string
	Type       RelationshipType
	Properties map[string]string
	CreatedAt  time.Time
}

// Chunk is a bounded window of a node's content, the unit of embedding.
// Chunks are derived on demand and never persisted standalone; VectorId is
// a pure function of (NodeId, Index), so the vector store's contents are
// always reconstructible from the graph store.
type Chunk struct {
	NodeId   string
	Index    int
	Text     string
	VectorId string
}

// ChunksOf pairs chunk texts with their deterministic vector ids.
func ChunksOf(nodeID string, texts []string) []Chunk {
	chunks := make([]Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = Chunk{
			NodeId:   nodeID,
			Index:    i,
			Text:     text,
			VectorId: VectorID(nodeID, i),
		}
	}
	return chunks
}

// EmbedText builds the text that is chunked and embedded for a node.
// The title is prepended so short documents still carry their subject.
func EmbedText(title, content string) string {
	return title + "\n\n" + content
}
