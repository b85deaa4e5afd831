package ingestion

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/vowvector/core"
	"github.com/poiesic/vowvector/textproc"
	"github.com/poiesic/vowvector/vector"
)

// CreateNode validates and persists a new node, then writes its chunk
// embeddings. The graph write is fatal on failure; everything after it only
// degrades the result.
func (p *Pipeline) CreateNode(ctx context.Context, record *core.NodeRecord) (*Result, error) {
	if err := core.ValidateNodeRecord(record); err != nil {
		return nil, err
	}

	if record.Id == "" {
		record.Id = core.NewNodeID(record.Type, time.Now())
	}

	chunkCount := 0
	if record.Type.Embeddable() {
		chunkCount = p.chunker.Count(len(record.Content))
	}
	if record.Metadata == nil {
		record.Metadata = make(map[string]string)
	}
	core.SetDerivedMetadata(record.Metadata, len(record.Content), chunkCount, textproc.Bucket(len(record.Content)))

	unlock := p.locks.Lock(record.Id)
	defer unlock()

	created, err := p.repo.CreateNode(ctx, record)
	if err != nil {
		return nil, err
	}

	res := &Result{Node: created}
	p.reconcileVectors(ctx, res, created, "", 0)

	p.logger.Info("node created",
		"id", created.Id, "type", created.Type.String(),
		"chunks", chunkCount, "degraded", res.Degraded)
	return res, nil
}

// UpdateNode applies a patch to an existing node and reconciles the vector
// store against the node's new shape. Chunks that no longer exist are
// deleted by reconstructing the previous id set from chunk_count metadata;
// the vector store is never queried for what it holds.
func (p *Pipeline) UpdateNode(ctx context.Context, id string, patch *core.NodePatch) (*Result, error) {
	if patch.Empty() {
		return nil, ErrEmptyPatch
	}
	if err := core.ValidateNodePatch(patch); err != nil {
		return nil, err
	}

	unlock := p.locks.Lock(id)
	defer unlock()

	existing, err := p.repo.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}

	prevCollection, _ := existing.Type.Collection()
	prevCount := core.MetaInt(existing.Metadata, core.MetaChunkCount)

	effective := scrubDerivedKeys(patch)
	if patch.ChangesEmbedText() {
		newContent := existing.Content
		if patch.Content != nil {
			newContent = *patch.Content
		}
		newType := existing.Type
		if patch.Type != nil {
			newType = *patch.Type
		}

		chunkCount := 0
		if newType.Embeddable() {
			chunkCount = p.chunker.Count(len(newContent))
		}
		if effective.Metadata == nil {
			effective.Metadata = make(map[string]string)
		}
		core.SetDerivedMetadata(effective.Metadata, len(newContent), chunkCount, textproc.Bucket(len(newContent)))
	}

	updated, err := p.repo.UpdateNode(ctx, id, effective)
	if err != nil {
		return nil, err
	}

	res := &Result{Node: updated}
	if patch.ChangesEmbedText() {
		p.reconcileVectors(ctx, res, updated, prevCollection, prevCount)
	}

	p.logger.Info("node updated", "id", id, "degraded", res.Degraded)
	return res, nil
}

// DeleteNode removes a node, its incident relationships, and its vector
// entries. The previous vector id set is captured from metadata before the
// graph delete; vector cleanup failures are logged and degrade the result,
// they never resurrect the node.
func (p *Pipeline) DeleteNode(ctx context.Context, id string) (*Result, error) {
	unlock := p.locks.Lock(id)
	defer unlock()

	existing, err := p.repo.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}

	collection, _ := existing.Type.Collection()
	count := core.MetaInt(existing.Metadata, core.MetaChunkCount)

	if err := p.repo.DeleteNode(ctx, id); err != nil {
		return nil, err
	}

	res := &Result{Node: existing}
	if collection != "" && count > 0 {
		p.deleteVectors(ctx, res, collection, core.VectorIDs(id, count))
	}

	p.logger.Info("node deleted",
		"id", id, "vectors", count, "degraded", res.Degraded)
	return res, nil
}

// reconcileVectors brings the vector store in line with the node's current
// graph state: upsert the node's new chunk set, then delete every previous
// id this operation did not rewrite. A chunk whose embedding failed is
// deleted too, since its old vector carries pre-update content.
// prevCollection/prevCount describe the node's shape before this operation
// ("" / 0 for a fresh create).
func (p *Pipeline) reconcileVectors(ctx context.Context, res *Result, node *core.NodeRecord, prevCollection string, prevCount int) {
	collection, embeddable := node.Type.Collection()
	chunks := p.chunker.Chunk(node.Content)
	if !embeddable {
		chunks = nil
	}

	var written map[string]struct{}
	if embeddable && len(chunks) > 0 {
		written = p.upsertChunks(ctx, res, node, collection, chunks)
	}

	if prevCollection == "" || prevCount == 0 {
		return
	}
	prevIDs := core.VectorIDs(node.Id, prevCount)
	if prevCollection != collection {
		p.deleteVectors(ctx, res, prevCollection, prevIDs)
		return
	}
	stale := make([]string, 0, prevCount)
	for _, id := range prevIDs {
		if _, ok := written[id]; !ok {
			stale = append(stale, id)
		}
	}
	p.deleteVectors(ctx, res, prevCollection, stale)
}

// upsertChunks embeds the node's chunks with bounded concurrency and writes
// the successes under their deterministic ids. Returns the set of ids
// actually written; a chunk that failed to embed produces a warning and is
// absent from the set. Nothing here is fatal.
func (p *Pipeline) upsertChunks(ctx context.Context, res *Result, node *core.NodeRecord, collection string, chunks []string) map[string]struct{} {
	embedCtx, cancel := context.WithTimeout(ctx, p.embedTimeout)
	defer cancel()

	vectors := make([][]float32, len(chunks))
	errs := make([]error, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		i := i
		text := core.EmbedText(node.Title, chunk)
		wg.Add(1)
		if submitErr := p.embedPool.Submit(func() {
			defer wg.Done()
			vectors[i], errs[i] = p.embedder.EmbedText(embedCtx, text)
		}); submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	points := make([]vector.Point, 0, len(chunks))
	for i := range chunks {
		if errs[i] != nil {
			p.logger.Warn("chunk embedding failed",
				"id", node.Id, "chunk", i, "err", errs[i])
			res.warn(StageEmbed, i, errs[i])
			continue
		}
		points = append(points, vector.Point{
			ID:      core.VectorID(node.Id, i),
			Vector:  vectors[i],
			Payload: chunkPayload(node, i, len(chunks)),
		})
	}
	if len(points) == 0 {
		return nil
	}

	storeCtx, cancel := context.WithTimeout(ctx, p.vectorTimeout)
	defer cancel()
	if err := p.store.Upsert(storeCtx, collection, points...); err != nil {
		p.logger.Warn("vector upsert failed, node stored without vectors",
			"id", node.Id, "collection", collection, "err", err)
		res.warn(StageVectorUpsert, -1, err)
		return nil
	}

	written := make(map[string]struct{}, len(points))
	for _, pt := range points {
		written[pt.ID] = struct{}{}
	}
	return written
}

// deleteVectors removes ids from a collection, degrading instead of failing.
func (p *Pipeline) deleteVectors(ctx context.Context, res *Result, collection string, ids []string) {
	if len(ids) == 0 {
		return
	}
	storeCtx, cancel := context.WithTimeout(ctx, p.vectorTimeout)
	defer cancel()
	if err := p.store.DeleteByIDs(storeCtx, collection, ids...); err != nil {
		p.logger.Warn("vector delete failed, stale entries remain",
			"collection", collection, "ids", len(ids), "err", err)
		res.warn(StageVectorDelete, -1, err)
	}
}

// chunkPayload builds the filterable payload stored alongside each chunk
// vector.
func chunkPayload(node *core.NodeRecord, index, total int) map[string]string {
	return map[string]string{
		"node_id":     node.Id,
		"title":       node.Title,
		"node_type":   node.Type.String(),
		"tags":        strings.Join(node.Tags, ","),
		"chunk_index": strconv.Itoa(index),
		"chunk_count": strconv.Itoa(total),
		"created_at":  node.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// scrubDerivedKeys copies the patch with pipeline-managed metadata keys
// removed from user input. Derived keys are recomputed, never accepted.
func scrubDerivedKeys(patch *core.NodePatch) *core.NodePatch {
	out := &core.NodePatch{
		Title:   patch.Title,
		Content: patch.Content,
		Type:    patch.Type,
		Tags:    patch.Tags,
	}
	if len(patch.Metadata) > 0 {
		out.Metadata = make(map[string]string, len(patch.Metadata))
		for k, v := range patch.Metadata {
			switch k {
			case core.MetaCtxSize, core.MetaCtxBucket, core.MetaChunkCount, core.MetaChunked:
				continue
			}
			out.Metadata[k] = v
		}
	}
	return out
}
