package reindex

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/vowvector/ai"
	"github.com/poiesic/vowvector/ai/mock"
	"github.com/poiesic/vowvector/core"
	"github.com/poiesic/vowvector/graph"
	badgergraph "github.com/poiesic/vowvector/graph/badger"
	"github.com/poiesic/vowvector/textproc"
	"github.com/poiesic/vowvector/vector"
	"github.com/poiesic/vowvector/vector/memory"
)

const testDims = 16

func testConfig() *Config {
	return &Config{
		BatchSize:      2,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
		Purge:          true,
	}
}

func seedNode(t *testing.T, repo graph.Repository, id, title, content string, nodeType core.NodeType) {
	t.Helper()
	meta := make(map[string]string)
	count := 0
	if nodeType.Embeddable() {
		count = textproc.DefaultChunker().Count(len(content))
	}
	core.SetDerivedMetadata(meta, len(content), count, textproc.Bucket(len(content)))

	_, err := repo.CreateNode(context.Background(), &core.NodeRecord{
		Id:       id,
		Title:    title,
		Content:  content,
		Type:     nodeType,
		Metadata: meta,
	})
	require.NoError(t, err)
}

func TestReindexRebuildsVectorStore(t *testing.T) {
	repo, backend, err := badgergraph.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	store := memory.NewStore()
	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = testDims
	ctx := context.Background()

	seedNode(t, repo, "note_1", "First", "some note content", core.NodeTypeNote)
	seedNode(t, repo, "note_2", "Second", strings.Repeat("x", 3500), core.NodeTypeNote) // 2 chunks
	seedNode(t, repo, "code_1", "Snippet", "package main", core.NodeTypeCode)
	seedNode(t, repo, "proj_1", "Grouping", "never embedded", core.NodeTypeProject)

	// An orphan left behind by a failed delete cleanup.
	require.NoError(t, store.Upsert(ctx, "notes", vector.Point{
		ID:      core.VectorID("note_gone", 0),
		Vector:  make([]float32, testDims),
		Payload: map[string]string{"node_id": "note_gone"},
	}))

	var buf bytes.Buffer
	r := NewReindexer(repo, store, ai.NewFixedDimEmbedder(embedder, testDims), testConfig(), &buf)

	stats, err := r.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Nodes)
	assert.Equal(t, 4, stats.Chunks) // 1 + 2 + 1
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Healed)

	assert.True(t, store.Has("notes", core.VectorID("note_1", 0)))
	assert.True(t, store.Has("notes", core.VectorID("note_2", 0)))
	assert.True(t, store.Has("notes", core.VectorID("note_2", 1)))
	assert.True(t, store.Has("code", core.VectorID("code_1", 0)))

	// The purge removed the orphan.
	assert.False(t, store.Has("notes", core.VectorID("note_gone", 0)))
	assert.Equal(t, 3, store.Count("notes"))

	assert.Contains(t, buf.String(), "Reindex complete")
}

func TestReindexHealsDriftedMetadata(t *testing.T) {
	repo, backend, err := badgergraph.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	store := memory.NewStore()
	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = testDims
	ctx := context.Background()

	// chunk_count lies: the content is one chunk, metadata says five.
	_, err = repo.CreateNode(ctx, &core.NodeRecord{
		Id:       "note_drift",
		Title:    "Drifted",
		Content:  "short",
		Type:     core.NodeTypeNote,
		Metadata: map[string]string{core.MetaChunkCount: "5"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	r := NewReindexer(repo, store, ai.NewFixedDimEmbedder(embedder, testDims), testConfig(), &buf)

	stats, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Healed)

	node, err := repo.GetNode(ctx, "note_drift")
	require.NoError(t, err)
	assert.Equal(t, "1", node.Metadata[core.MetaChunkCount])
}

func TestReindexWithoutPurgeTrimsStaleVectors(t *testing.T) {
	repo, backend, err := badgergraph.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	store := memory.NewStore()
	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = testDims
	ctx := context.Background()

	// The node shrank since its last write: metadata still records three
	// chunks, and the old vectors are still in the store.
	_, err = repo.CreateNode(ctx, &core.NodeRecord{
		Id:       "note_shrunk",
		Title:    "Shrunk",
		Content:  "now a single chunk",
		Type:     core.NodeTypeNote,
		Metadata: map[string]string{core.MetaChunkCount: "3"},
	})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Upsert(ctx, "notes", vector.Point{
			ID:      core.VectorID("note_shrunk", i),
			Vector:  make([]float32, testDims),
			Payload: map[string]string{"node_id": "note_shrunk"},
		}))
	}

	config := testConfig()
	config.Purge = false

	var buf bytes.Buffer
	r := NewReindexer(repo, store, ai.NewFixedDimEmbedder(embedder, testDims), config, &buf)

	stats, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Chunks)
	assert.Equal(t, 1, stats.Healed)

	assert.True(t, store.Has("notes", core.VectorID("note_shrunk", 0)))
	assert.False(t, store.Has("notes", core.VectorID("note_shrunk", 1)))
	assert.False(t, store.Has("notes", core.VectorID("note_shrunk", 2)))
	assert.Equal(t, 1, store.Count("notes"))
}

func TestReindexEmptyDatabase(t *testing.T) {
	repo, backend, err := badgergraph.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	var buf bytes.Buffer
	embedder := mock.NewMockEmbedder()
	r := NewReindexer(repo, memory.NewStore(), embedder, testConfig(), &buf)

	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Nodes)
	assert.Contains(t, buf.String(), "No nodes found")
	assert.Equal(t, 0, embedder.CallCount())
}

func TestReindexEmbeddingFailureIsFatal(t *testing.T) {
	repo, backend, err := badgergraph.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	seedNode(t, repo, "note_1", "First", "content", core.NodeTypeNote)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, ai.ErrUnreachable
	}

	var buf bytes.Buffer
	r := NewReindexer(repo, memory.NewStore(), embedder, testConfig(), &buf)

	_, err = r.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrUnreachable)
	// Two attempts per MaxRetries.
	assert.Equal(t, 2, embedder.CallCount())
}
