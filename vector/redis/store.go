package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/redis/rueidis"

	"github.com/poiesic/vowvector/vector"
)

// DefaultDimensions matches the embedding service's fixed output size.
const DefaultDimensions = 768

// Compile-time check: Store implements vector.Store.
var _ vector.Store = (*Store)(nil)

// Config holds connection parameters for a Redis vector store.
type Config struct {
	Addrs      []string
	Username   string
	Password   string
	DB         int
	Dimensions int // vector dimensionality; DefaultDimensions if zero
}

// Store implements vector.Store via rueidis against Redis 8+ with vector
// search. Each collection is a key prefix plus a lazily created FT index.
type Store struct {
	client rueidis.Client
	dim    int

	// indexed tracks collections whose FT index has been ensured.
	indexed sync.Map
}

// NewStore creates a Redis vector store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	dim := cfg.Dimensions
	if dim == 0 {
		dim = DefaultDimensions
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH result parsing expects RESP2 array format
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client, dim: dim}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() error {
	s.client.Close()
	return nil
}

// Upsert writes points into a collection, creating its index on first use.
// HSET on an existing key overwrites fields, so upserts are idempotent.
func (s *Store) Upsert(ctx context.Context, collection string, points ...vector.Point) error {
	if len(points) == 0 {
		return nil
	}
	for _, p := range points {
		if len(p.Vector) != s.dim {
			return &vector.Error{Op: vector.OpUpsert, Err: vector.ErrDimensionMismatch}
		}
	}

	if err := s.ensureIndex(ctx, collection); err != nil {
		return err
	}

	cmds := make([]rueidis.Completed, len(points))
	for i, p := range points {
		cmd := s.client.B().Hset().Key(pointKey(collection, p.ID)).FieldValue()
		cmd = cmd.FieldValue(vectorField, vectorToBytes(p.Vector))
		for k, v := range p.Payload {
			if k == vectorField {
				continue // reserved field
			}
			cmd = cmd.FieldValue(k, v)
		}
		cmds[i] = cmd.Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &vector.Error{Op: vector.OpUpsert, Err: fmt.Errorf("point %s: %w", points[i].ID, err)}
		}
	}
	return nil
}

// DeleteByIDs removes points by id. Missing ids are ignored.
func (s *Store) DeleteByIDs(ctx context.Context, collection string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, len(ids))
	for i, id := range ids {
		cmds[i] = s.client.B().Del().Key(pointKey(collection, id)).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &vector.Error{Op: vector.OpDelete, Err: fmt.Errorf("id %s: %w", ids[i], err)}
		}
	}
	return nil
}

// DeleteCollection removes every point under the collection prefix and
// drops its index.
func (s *Store) DeleteCollection(ctx context.Context, collection string) error {
	var cursor uint64
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match(collection + ":*").Count(100).Build()
		res, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return &vector.Error{Op: vector.OpDeleteCollection, Err: err}
		}
		if len(res.Elements) > 0 {
			del := s.client.B().Del().Key(res.Elements...).Build()
			if err := s.client.Do(ctx, del).Error(); err != nil {
				return &vector.Error{Op: vector.OpDeleteCollection, Err: err}
			}
		}
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	drop := s.client.B().Arbitrary("FT.DROPINDEX").Args(indexName(collection)).Build()
	if err := s.client.Do(ctx, drop).Error(); err != nil && !isRedisErr(err, "unknown index name") {
		return &vector.Error{Op: vector.OpDeleteCollection, Err: err}
	}
	s.indexed.Delete(collection)
	return nil
}

// ensureIndex creates the collection's FT index if this store hasn't done
// so yet. "Index already exists" from a previous process is fine.
func (s *Store) ensureIndex(ctx context.Context, collection string) error {
	if _, ok := s.indexed.Load(collection); ok {
		return nil
	}

	cmd := s.client.B().Arbitrary("FT.CREATE").Args(
		indexName(collection),
		"ON", "HASH",
		"PREFIX", "1", collection+":",
		"SCHEMA",
		vectorField, "VECTOR", "FLAT", "6",
		"TYPE", "FLOAT32",
		"DIM", fmt.Sprintf("%d", s.dim),
		"DISTANCE_METRIC", "COSINE",
		"node_id", "TAG",
	).Build()

	if err := s.client.Do(ctx, cmd).Error(); err != nil && !isRedisErr(err, "index already exists") {
		return &vector.Error{Op: vector.OpCreateIndex, Err: err}
	}

	s.indexed.Store(collection, true)
	return nil
}

const vectorField = "vector"

func pointKey(collection, id string) string {
	return collection + ":" + id
}

func indexName(collection string) string {
	return "idx:" + collection
}

// vectorToBytes encodes a float32 vector as little-endian binary, the
// layout RediSearch expects for FLOAT32 vector fields.
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// isRedisErr checks if err is a Redis server error containing substr
// (case-insensitive).
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(re.Error()), strings.ToLower(substr))
}
