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


package vowvector

import (
	"io"
	"log/slog"

	"github.com/poiesic/vowvector/ai"
	"github.com/poiesic/vowvector/ai/openai"
	"github.com/poiesic/vowvector/graph"
	badgergraph "github.com/poiesic/vowvector/graph/badger"
	"github.com/poiesic/vowvector/ingestion"
	"github.com/poiesic/vowvector/reindex"
	"github.com/poiesic/vowvector/search"
	"github.com/poiesic/vowvector/vector"
	"github.com/poiesic/vowvector/vector/memory"
	"github.com/poiesic/vowvector/vector/redis"
)

// Engine wires the graph store, vector store, and embedder together and
// hands out the pipeline, searcher, and reindexer built on them.
type Engine struct {
	backend  *badgergraph.Backend
	repo     graph.Repository
	store    vector.Store
	embedder ai.Embedder
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig   *ai.Config
	redisAddrs []string
	store      vector.Store
	embedder   ai.Embedder
	inMemory   bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithRedisAddrs points the vector store at a Redis deployment.
// Ignored when WithVectorStore is also given.
func WithRedisAddrs(addrs ...string) EngineOption {
	return func(o *engineOptions) {
		o.redisAddrs = addrs
	}
}

// WithVectorStore injects a pre-built vector store, bypassing Redis setup.
func WithVectorStore(store vector.Store) EngineOption {
	return func(o *engineOptions) {
		o.store = store
	}
}

// WithEmbedder injects a pre-built embedder, bypassing the OpenAI client.
func WithEmbedder(embedder ai.Embedder) EngineOption {
	return func(o *engineOptions) {
		o.embedder = embedder
	}
}

// WithInMemoryGraph opens the graph store in memory. For tests and
// throwaway runs; nothing survives Close.
func WithInMemoryGraph() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// Open creates an Engine over a badger graph store at filePath. Without
// WithVectorStore or WithRedisAddrs the vector store is in-process and
// non-persistent.
func Open(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badgergraph.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo, err := badgergraph.NewRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	store := options.store
	if store == nil {
		if len(options.redisAddrs) > 0 {
			store, err = redis.NewStore(redis.Config{
				Addrs:      options.redisAddrs,
				Dimensions: options.aiConfig.Dimensions,
			})
			if err != nil {
				repo.Close()
				backend.Close()
				return nil, err
			}
		} else {
			store = memory.NewStore()
		}
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			store.Close()
			repo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Engine{
		backend:  backend,
		repo:     repo,
		store:    store,
		embedder: embedder,
		logger:   slog.Default(),
	}, nil
}

// Close releases the vector store and the graph store.
func (e *Engine) Close() error {
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing vector store", "err", err)
	}

	if err := e.repo.Close(); err != nil {
		e.logger.Error("error closing graph repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Repository exposes the authoritative graph store.
func (e *Engine) Repository() graph.Repository {
	return e.repo
}

// VectorStore exposes the derived vector store.
func (e *Engine) VectorStore() vector.Store {
	return e.store
}

// NewPipeline builds an ingestion pipeline on the engine's stores.
func (e *Engine) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(e.repo, e.store, e.embedder, opts...)
}

// NewSearcher builds a searcher on the engine's stores.
func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(e.repo, e.store, e.embedder, opts...)
}

// NewReindexer builds a reindexer writing progress to the given writer.
func (e *Engine) NewReindexer(config *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.NewReindexer(e.repo, e.store, e.embedder, config, progress)
}
