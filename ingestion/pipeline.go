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


package ingestion

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/vowvector/ai"
	"github.com/poiesic/vowvector/graph"
	"github.com/poiesic/vowvector/textproc"
	"github.com/poiesic/vowvector/vector"
)

// Default per-stage timeouts. The graph store is local and fast; the
// embedding service and vector store are remote and get their own budgets.
const (
	DefaultEmbedTimeout  = 60 * time.Second
	DefaultVectorTimeout = 15 * time.Second
)

// DefaultEmbedWorkers bounds how many of one node's chunks are embedded
// concurrently.
const DefaultEmbedWorkers = 4

// Pipeline orchestrates node ingestion across the two stores. The graph
// write is the commit point of every operation: once it succeeds the
// operation reports success, and any vector-side failure downgrades the
// result to degraded instead of failing it.
type Pipeline struct {
	repo      graph.Repository
	store     vector.Store
	embedder  ai.Embedder
	chunker   *textproc.Chunker
	filePool  *ants.Pool
	embedPool *ants.Pool
	locks     *keyedLocks
	logger    *slog.Logger

	embedTimeout  time.Duration
	vectorTimeout time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent file ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.filePool != nil {
			p.filePool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.filePool = pool
		return nil
	}
}

// WithEmbedWorkers sets the worker pool size for embedding one node's
// chunks. Default is DefaultEmbedWorkers.
func WithEmbedWorkers(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embedPool != nil {
			p.embedPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embedPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunker overrides the default 3000/200 chunker.
func WithChunker(chunker *textproc.Chunker) Option {
	return func(p *Pipeline) error {
		if chunker != nil {
			p.chunker = chunker
		}
		return nil
	}
}

// WithTimeouts overrides the embedding and vector-store stage timeouts.
// Non-positive values keep the defaults.
func WithTimeouts(embed, vectorStore time.Duration) Option {
	return func(p *Pipeline) error {
		if embed > 0 {
			p.embedTimeout = embed
		}
		if vectorStore > 0 {
			p.vectorTimeout = vectorStore
		}
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over a graph repository, a
// vector store, and an embedder.
func NewPipeline(
	repo graph.Repository,
	store vector.Store,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	filePool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	embedPool, err := ants.NewPool(DefaultEmbedWorkers)
	if err != nil {
		filePool.Release()
		return nil, err
	}

	p := &Pipeline{
		repo:          repo,
		store:         store,
		embedder:      embedder,
		chunker:       textproc.DefaultChunker(),
		filePool:      filePool,
		embedPool:     embedPool,
		locks:         newKeyedLocks(),
		logger:        slog.Default(),
		embedTimeout:  DefaultEmbedTimeout,
		vectorTimeout: DefaultVectorTimeout,
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release releases the worker pools. The pipeline should not be used after
// calling Release. The repository, store, and embedder are owned by the
// caller and are not closed.
func (p *Pipeline) Release() {
	if p.filePool != nil {
		p.filePool.Release()
	}
	if p.embedPool != nil {
		p.embedPool.Release()
	}
}
