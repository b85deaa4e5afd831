package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/poiesic/vowvector/core"
	"github.com/poiesic/vowvector/textproc"
)

// PrechunkedDocument is the import contract for upstream formatters that
// chunk content themselves (conversation exporters in particular). The
// provided chunks are embedded verbatim; the pipeline does not re-chunk.
type PrechunkedDocument struct {
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	NodeType string            `json:"node_type"`
	Tags     []string          `json:"tags,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Chunks   []string          `json:"chunks"`
}

// ParsePrechunked decodes a prechunked document from JSON.
func ParsePrechunked(data []byte) (*PrechunkedDocument, error) {
	var doc PrechunkedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing prechunked document: %w", err)
	}
	return &doc, nil
}

// IngestPrechunked creates a node from a prechunked document. chunk_count
// reflects the provided chunk list, so later updates and deletes reconstruct
// exactly the id set written here.
func (p *Pipeline) IngestPrechunked(ctx context.Context, doc *PrechunkedDocument) (*Result, error) {
	nodeType, err := core.ParseNodeType(doc.NodeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, doc.NodeType)
	}

	record := &core.NodeRecord{
		Title:    doc.Title,
		Content:  doc.Content,
		Type:     nodeType,
		Tags:     doc.Tags,
		Metadata: doc.Metadata,
	}
	if err := core.ValidateNodeRecord(record); err != nil {
		return nil, err
	}
	record.Id = core.NewNodeID(record.Type, time.Now())

	chunks := doc.Chunks
	if !nodeType.Embeddable() {
		chunks = nil
	}
	if record.Metadata == nil {
		record.Metadata = make(map[string]string)
	}
	core.SetDerivedMetadata(record.Metadata, len(record.Content), len(chunks), textproc.Bucket(len(record.Content)))

	unlock := p.locks.Lock(record.Id)
	defer unlock()

	created, err := p.repo.CreateNode(ctx, record)
	if err != nil {
		return nil, err
	}

	res := &Result{Node: created}
	if len(chunks) > 0 {
		collection, _ := nodeType.Collection()
		p.upsertChunks(ctx, res, created, collection, chunks)
	}

	p.logger.Info("prechunked node created",
		"id", created.Id, "chunks", len(chunks), "degraded", res.Degraded)
	return res, nil
}
