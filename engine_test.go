package vowvector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/vowvector/ai"
	"github.com/poiesic/vowvector/ai/mock"
	"github.com/poiesic/vowvector/core"
	"github.com/poiesic/vowvector/search"
	"github.com/poiesic/vowvector/vector/memory"
)

func testEngine(t *testing.T, path string) *Engine {
	t.Helper()
	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 16
	e, err := Open(path,
		WithVectorStore(memory.NewStore()),
		WithEmbedder(ai.NewFixedDimEmbedder(embedder, 16)),
	)
	require.NoError(t, err)
	return e
}

func TestOpen(t *testing.T) {
	t.Run("create new engine", func(t *testing.T) {
		e := testEngine(t, filepath.Join(t.TempDir(), "test_db"))
		defer e.Close()

		assert.NotNil(t, e.Repository())
		assert.NotNil(t, e.VectorStore())
		assert.NotNil(t, e.backend)
		assert.NotNil(t, e.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		e, err := Open(tmpFile,
			WithVectorStore(memory.NewStore()),
			WithEmbedder(mock.NewMockEmbedder()),
		)
		assert.Error(t, err)
		assert.Nil(t, e)
	})
}

func TestEngine_Close(t *testing.T) {
	e := testEngine(t, t.TempDir())
	assert.NoError(t, e.Close())
}

func TestEngine_FactoryMethods(t *testing.T) {
	e := testEngine(t, t.TempDir())
	defer e.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := e.NewPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create searcher", func(t *testing.T) {
		searcher, err := e.NewSearcher()
		require.NoError(t, err)
		require.NotNil(t, searcher)
	})

	t.Run("can create reindexer", func(t *testing.T) {
		r := e.NewReindexer(nil, os.Stderr)
		require.NotNil(t, r)
	})
}

func TestEngine_EndToEnd(t *testing.T) {
	e := testEngine(t, t.TempDir())
	defer e.Close()
	ctx := context.Background()

	pipeline, err := e.NewPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	res, err := pipeline.CreateNode(ctx, &core.NodeRecord{
		Title:   "Compost Basics",
		Content: "layer greens and browns, keep it damp",
		Type:    core.NodeTypeNote,
	})
	require.NoError(t, err)
	assert.False(t, res.Degraded)

	searcher, err := e.NewSearcher()
	require.NoError(t, err)

	results, err := searcher.Search(ctx, search.Query{Text: "layer greens and browns, keep it damp"})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, res.Node.Id, results[0].Node.Id)
}
