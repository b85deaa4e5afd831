package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/vowvector/ai"
	"github.com/poiesic/vowvector/ai/mock"
	"github.com/poiesic/vowvector/core"
	badgergraph "github.com/poiesic/vowvector/graph/badger"
	"github.com/poiesic/vowvector/textproc"
	"github.com/poiesic/vowvector/vector/memory"
)

const testDims = 16

type fixture struct {
	pipeline *Pipeline
	store    *memory.Store
	embedder *mock.MockEmbedder
	close    func()
}

// newFixture builds a pipeline over an in-memory graph repository, an
// in-memory vector store, and a mock embedder. The small chunker makes
// multi-chunk nodes cheap to construct in tests.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo, backend, err := badgergraph.NewMemoryRepository()
	require.NoError(t, err)

	store := memory.NewStore()
	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = testDims

	chunker, err := textproc.NewChunker(10, 2)
	require.NoError(t, err)

	pipeline, err := NewPipeline(repo, store, ai.NewFixedDimEmbedder(embedder, testDims),
		WithChunker(chunker),
	)
	require.NoError(t, err)

	return &fixture{
		pipeline: pipeline,
		store:    store,
		embedder: embedder,
		close: func() {
			pipeline.Release()
			repo.Close()
			backend.Close()
		},
	}
}

func noteRecord(title, content string) *core.NodeRecord {
	return &core.NodeRecord{
		Title:   title,
		Content: content,
		Type:    core.NodeTypeNote,
	}
}

func TestCreateNodeWritesBothStores(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	// 22 chars with a 10/2 chunker: 3 chunks.
	res, err := f.pipeline.CreateNode(ctx, noteRecord("Title", strings.Repeat("a", 22)))
	require.NoError(t, err)
	require.NotNil(t, res.Node)
	assert.False(t, res.Degraded)
	assert.Empty(t, res.Warnings)

	assert.Equal(t, "3", res.Node.Metadata[core.MetaChunkCount])
	assert.Equal(t, "22", res.Node.Metadata[core.MetaCtxSize])
	assert.Equal(t, "small", res.Node.Metadata[core.MetaCtxBucket])
	assert.Equal(t, "true", res.Node.Metadata[core.MetaChunked])

	assert.Equal(t, 3, f.store.Count("notes"))
	for i := 0; i < 3; i++ {
		assert.True(t, f.store.Has("notes", core.VectorID(res.Node.Id, i)))
	}
}

func TestCreateNodeNonEmbeddableType(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	res, err := f.pipeline.CreateNode(context.Background(), &core.NodeRecord{
		Title:   "Grouping",
		Content: "some content that would chunk",
		Type:    core.NodeTypeProject,
	})
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Equal(t, "0", res.Node.Metadata[core.MetaChunkCount])
	assert.Equal(t, 0, f.embedder.CallCount())
}

func TestCreateNodeEmptyContent(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	res, err := f.pipeline.CreateNode(context.Background(), noteRecord("Empty", ""))
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Equal(t, "0", res.Node.Metadata[core.MetaChunkCount])
	assert.Equal(t, 0, f.store.Count("notes"))
}

func TestCreateNodeEmbeddingOutageDegrades(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("connection refused")
	}

	// "hello world" with a 10/2 chunker: 2 chunks, both failing.
	res, err := f.pipeline.CreateNode(ctx, noteRecord("Title", "hello world"))
	require.NoError(t, err, "graph write succeeded, so the operation must not fail")
	assert.True(t, res.Degraded)
	require.Len(t, res.Warnings, 2)
	indices := make([]int, 0, 2)
	for _, w := range res.Warnings {
		assert.Equal(t, StageEmbed, w.Stage)
		assert.True(t, errors.Is(w.Err, ai.ErrUnreachable))
		indices = append(indices, w.ChunkIndex)
	}
	assert.ElementsMatch(t, []int{0, 1}, indices)

	// Node is durably stored despite the outage.
	got, err := f.pipeline.repo.GetNode(ctx, res.Node.Id)
	require.NoError(t, err)
	assert.Equal(t, "Title", got.Title)
	assert.Equal(t, 0, f.store.Count("notes"))
}

func TestCreateNodePartialChunkFailure(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "FAIL") {
			return nil, errors.New("connection refused")
		}
		return make([]float32, testDims), nil
	}

	// 22 chars with a 10/2 chunker: windows [0,10), [8,18), [16,22).
	// FAIL sits at bytes 10-13, inside the middle window only.
	content := strings.Repeat("a", 10) + "FAIL" + strings.Repeat("b", 8)
	res, err := f.pipeline.CreateNode(ctx, noteRecord("Title", content))
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, StageEmbed, res.Warnings[0].Stage)
	assert.Equal(t, 1, res.Warnings[0].ChunkIndex)

	// The two good chunks are written, the failed one is absent.
	assert.Equal(t, 2, f.store.Count("notes"))
	assert.True(t, f.store.Has("notes", core.VectorID(res.Node.Id, 0)))
	assert.False(t, f.store.Has("notes", core.VectorID(res.Node.Id, 1)))
	assert.True(t, f.store.Has("notes", core.VectorID(res.Node.Id, 2)))
}

func TestCreateNodeRejectsInvalidRecord(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	_, err := f.pipeline.CreateNode(context.Background(), noteRecord("", "content"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidNodeRecord))
	assert.Equal(t, 0, f.embedder.CallCount())
}

func TestCreateNodeScrubsDerivedMetadata(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	record := noteRecord("Title", "hello")
	record.Metadata = map[string]string{
		core.MetaChunkCount: "999",
		"source":            "test",
	}

	res, err := f.pipeline.CreateNode(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "1", res.Node.Metadata[core.MetaChunkCount])
	assert.Equal(t, "test", res.Node.Metadata["source"])
}

func TestUpdateNodeShrinkDeletesOrphans(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	res, err := f.pipeline.CreateNode(ctx, noteRecord("Title", strings.Repeat("a", 22)))
	require.NoError(t, err)
	id := res.Node.Id
	require.Equal(t, 3, f.store.Count("notes"))

	short := "tiny"
	updated, err := f.pipeline.UpdateNode(ctx, id, &core.NodePatch{Content: &short})
	require.NoError(t, err)
	assert.False(t, updated.Degraded)
	assert.Equal(t, "1", updated.Node.Metadata[core.MetaChunkCount])

	// Chunk 0 overwritten in place, chunks 1 and 2 deleted.
	assert.Equal(t, 1, f.store.Count("notes"))
	assert.True(t, f.store.Has("notes", core.VectorID(id, 0)))
	assert.False(t, f.store.Has("notes", core.VectorID(id, 1)))
	assert.False(t, f.store.Has("notes", core.VectorID(id, 2)))
}

func TestUpdateNodeEmbedOutageDeletesPreviousVectors(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	res, err := f.pipeline.CreateNode(ctx, noteRecord("Title", strings.Repeat("a", 22)))
	require.NoError(t, err)
	id := res.Node.Id
	require.Equal(t, 3, f.store.Count("notes"))

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("connection refused")
	}

	content := strings.Repeat("d", 22)
	updated, err := f.pipeline.UpdateNode(ctx, id, &core.NodePatch{Content: &content})
	require.NoError(t, err)
	assert.True(t, updated.Degraded)

	// The update committed new content to the graph, so no vector may keep
	// serving the old text: every previous id not rewritten is deleted.
	assert.Equal(t, 0, f.store.Count("notes"))

	got, err := f.pipeline.repo.GetNode(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, content, got.Content)
}

func TestUpdateNodePartialEmbedFailureDeletesStaleChunk(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	res, err := f.pipeline.CreateNode(ctx, noteRecord("Title", strings.Repeat("a", 22)))
	require.NoError(t, err)
	id := res.Node.Id
	require.Equal(t, 3, f.store.Count("notes"))

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "FAIL") {
			return nil, errors.New("connection refused")
		}
		return make([]float32, testDims), nil
	}

	// Middle window fails: its old vector must not survive with stale text.
	content := strings.Repeat("a", 10) + "FAIL" + strings.Repeat("b", 8)
	updated, err := f.pipeline.UpdateNode(ctx, id, &core.NodePatch{Content: &content})
	require.NoError(t, err)
	assert.True(t, updated.Degraded)

	assert.Equal(t, 2, f.store.Count("notes"))
	assert.True(t, f.store.Has("notes", core.VectorID(id, 0)))
	assert.False(t, f.store.Has("notes", core.VectorID(id, 1)))
	assert.True(t, f.store.Has("notes", core.VectorID(id, 2)))
}

func TestUpdateNodeTypeChangeMovesCollections(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	res, err := f.pipeline.CreateNode(ctx, noteRecord("Snippet", strings.Repeat("x", 15)))
	require.NoError(t, err)
	id := res.Node.Id
	require.Equal(t, 2, f.store.Count("notes"))

	codeType := core.NodeTypeCode
	updated, err := f.pipeline.UpdateNode(ctx, id, &core.NodePatch{Type: &codeType})
	require.NoError(t, err)
	assert.False(t, updated.Degraded)

	assert.Equal(t, 0, f.store.Count("notes"))
	assert.Equal(t, 2, f.store.Count("code"))
	assert.True(t, f.store.Has("code", core.VectorID(id, 0)))
}

func TestUpdateNodeToNonEmbeddableDeletesAll(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	res, err := f.pipeline.CreateNode(ctx, noteRecord("Note", strings.Repeat("x", 15)))
	require.NoError(t, err)
	require.Equal(t, 2, f.store.Count("notes"))

	tagType := core.NodeTypeTag
	updated, err := f.pipeline.UpdateNode(ctx, res.Node.Id, &core.NodePatch{Type: &tagType})
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.Count("notes"))
	assert.Equal(t, "0", updated.Node.Metadata[core.MetaChunkCount])
}

func TestUpdateNodeMetadataOnlySkipsVectorWork(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	res, err := f.pipeline.CreateNode(ctx, noteRecord("Title", "hello world"))
	require.NoError(t, err)
	calls := f.embedder.CallCount()

	updated, err := f.pipeline.UpdateNode(ctx, res.Node.Id, &core.NodePatch{
		Metadata: map[string]string{"reviewed": "yes"},
	})
	require.NoError(t, err)
	assert.Equal(t, calls, f.embedder.CallCount(), "metadata-only update must not re-embed")
	assert.Equal(t, "yes", updated.Node.Metadata["reviewed"])
	assert.Equal(t, "1", updated.Node.Metadata[core.MetaChunkCount])
}

func TestUpdateNodeEmptyPatch(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	_, err := f.pipeline.UpdateNode(context.Background(), "whatever", &core.NodePatch{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyPatch))
}

func TestUpdateNodeIdempotentIds(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	res, err := f.pipeline.CreateNode(ctx, noteRecord("Title", strings.Repeat("a", 15)))
	require.NoError(t, err)
	id := res.Node.Id

	// Same-length content: the id set is identical, entries overwritten.
	content := strings.Repeat("b", 15)
	_, err = f.pipeline.UpdateNode(ctx, id, &core.NodePatch{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.Count("notes"))
}

func TestDeleteNodeCleansVectors(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	res, err := f.pipeline.CreateNode(ctx, noteRecord("Title", strings.Repeat("a", 22)))
	require.NoError(t, err)
	require.Equal(t, 3, f.store.Count("notes"))

	del, err := f.pipeline.DeleteNode(ctx, res.Node.Id)
	require.NoError(t, err)
	assert.False(t, del.Degraded)
	assert.Equal(t, 0, f.store.Count("notes"))

	_, err = f.pipeline.repo.GetNode(ctx, res.Node.Id)
	assert.Error(t, err)
}

func TestDeleteNodeMissing(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	_, err := f.pipeline.DeleteNode(context.Background(), "note_nope")
	require.Error(t, err)
}

// failingDeleteStore wraps a vector store and fails every delete.
type failingDeleteStore struct {
	*memory.Store
}

func (s *failingDeleteStore) DeleteByIDs(ctx context.Context, collection string, ids ...string) error {
	return errors.New("store unavailable")
}

func TestDeleteNodeVectorFailureDegrades(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	res, err := f.pipeline.CreateNode(ctx, noteRecord("Title", "hello"))
	require.NoError(t, err)

	f.pipeline.store = &failingDeleteStore{Store: f.store}

	del, err := f.pipeline.DeleteNode(ctx, res.Node.Id)
	require.NoError(t, err, "graph delete is authoritative; vector cleanup failure must not fail it")
	assert.True(t, del.Degraded)
	require.Len(t, del.Warnings, 1)
	assert.Equal(t, StageVectorDelete, del.Warnings[0].Stage)

	// The node is gone from the graph regardless of vector cleanup.
	_, err = f.pipeline.repo.GetNode(ctx, res.Node.Id)
	assert.Error(t, err)
}

func TestConcurrentUpdatesStayConsistent(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	res, err := f.pipeline.CreateNode(ctx, noteRecord("Title", strings.Repeat("a", 22)))
	require.NoError(t, err)
	id := res.Node.Id

	contents := []string{
		strings.Repeat("b", 5),  // 1 chunk
		strings.Repeat("c", 15), // 2 chunks
		strings.Repeat("d", 22), // 3 chunks
	}

	var wg sync.WaitGroup
	for _, content := range contents {
		content := content
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.pipeline.UpdateNode(ctx, id, &core.NodePatch{Content: &content})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Whichever update won, the vector store must agree with the graph
	// store's chunk_count exactly.
	final, err := f.pipeline.repo.GetNode(ctx, id)
	require.NoError(t, err)
	count := core.MetaInt(final.Metadata, core.MetaChunkCount)
	assert.Equal(t, count, f.store.Count("notes"))
	for i := 0; i < count; i++ {
		assert.True(t, f.store.Has("notes", core.VectorID(id, i)))
	}
}

func TestIngestFile(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	dir := t.TempDir()
	path := filepath.Join(dir, "design_notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Heading\n\nBody text."), 0o644))

	res, err := f.pipeline.IngestFile(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Design Notes", res.Node.Title)
	assert.Equal(t, core.NodeTypeNote, res.Node.Type)
	assert.Contains(t, res.Node.Tags, "md")
	assert.Contains(t, res.Node.Tags, "uploaded")
	assert.Equal(t, "design_notes.md", res.Node.Metadata["source_file"])
}

func TestIngestFiles(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	dir := t.TempDir()
	paths := make([]string, 3)
	for i, name := range []string{"a.txt", "b.go", "missing.txt"} {
		paths[i] = filepath.Join(dir, name)
	}
	require.NoError(t, os.WriteFile(paths[0], []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(paths[1], []byte("package main"), 0o644))

	results := f.pipeline.IngestFiles(context.Background(), paths, nil)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, core.NodeTypeNote, results[0].Result.Node.Type)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, core.NodeTypeCode, results[1].Result.Node.Type)
	assert.Error(t, results[2].Err)
}

func TestIngestPrechunked(t *testing.T) {
	f := newFixture(t)
	defer f.close()
	ctx := context.Background()

	doc := &PrechunkedDocument{
		Title:    "Conversation",
		Content:  "user: hi\nassistant: hello",
		NodeType: "AIInteraction",
		Tags:     []string{"imported"},
		Chunks:   []string{"user: hi", "assistant: hello"},
	}

	res, err := f.pipeline.IngestPrechunked(ctx, doc)
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Equal(t, core.NodeTypeAIInteraction, res.Node.Type)
	assert.Equal(t, "2", res.Node.Metadata[core.MetaChunkCount])
	assert.Equal(t, 2, f.store.Count("ai_interactions"))

	// Deleting the node must reconstruct exactly the provided chunk count.
	_, err = f.pipeline.DeleteNode(ctx, res.Node.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.Count("ai_interactions"))
}

func TestParsePrechunked(t *testing.T) {
	data := []byte(`{"title":"T","content":"C","node_type":"Note","chunks":["C"]}`)
	doc, err := ParsePrechunked(data)
	require.NoError(t, err)
	assert.Equal(t, "T", doc.Title)
	require.Len(t, doc.Chunks, 1)

	_, err = ParsePrechunked([]byte("{broken"))
	assert.Error(t, err)
}

func TestIngestPrechunkedUnknownType(t *testing.T) {
	f := newFixture(t)
	defer f.close()

	_, err := f.pipeline.IngestPrechunked(context.Background(), &PrechunkedDocument{
		Title:    "T",
		NodeType: "Banana",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnknownNodeType))
}
