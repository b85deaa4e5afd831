package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/poiesic/vowvector/vector"
)

// Compile-time check: Store implements vector.Store.
var _ vector.Store = (*Store)(nil)

// Store is an in-process vector.Store backed by maps. Search is an exact
// cosine scan. Intended for tests and embedded use.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]vector.Point
	closed      bool
}

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{collections: make(map[string]map[string]vector.Point)}
}

// Upsert writes points, creating the collection on first use.
func (s *Store) Upsert(_ context.Context, collection string, points ...vector.Point) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]vector.Point)
		s.collections[collection] = coll
	}
	for _, p := range points {
		vec := make([]float32, len(p.Vector))
		copy(vec, p.Vector)
		payload := make(map[string]string, len(p.Payload))
		for k, v := range p.Payload {
			payload[k] = v
		}
		coll[p.ID] = vector.Point{ID: p.ID, Vector: vec, Payload: payload}
	}
	return nil
}

// DeleteByIDs removes points by id. Missing ids and collections are ignored.
func (s *Store) DeleteByIDs(_ context.Context, collection string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		return nil
	}
	for _, id := range ids {
		delete(coll, id)
	}
	return nil
}

// DeleteCollection drops a whole collection. Absent collections are ignored.
func (s *Store) DeleteCollection(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, collection)
	return nil
}

// Search scans the collection for the limit nearest points by cosine
// similarity.
func (s *Store) Search(_ context.Context, collection string, query []float32, limit int) ([]vector.Match, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[collection]
	if !ok {
		return nil, &vector.Error{Op: vector.OpSearch, Err: vector.ErrCollectionNotFound}
	}

	matches := make([]vector.Match, 0, len(coll))
	for _, p := range coll {
		if len(p.Vector) != len(query) {
			return nil, &vector.Error{Op: vector.OpSearch, Err: vector.ErrDimensionMismatch}
		}
		payload := make(map[string]string, len(p.Payload))
		for k, v := range p.Payload {
			payload[k] = v
		}
		matches = append(matches, vector.Match{
			ID:      p.ID,
			Score:   cosineSimilarity(query, p.Vector),
			Payload: payload,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Count returns the number of points in a collection. Test helper.
func (s *Store) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

// Has reports whether a point id exists in a collection. Test helper.
func (s *Store) Has(collection, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll, ok := s.collections[collection]
	if !ok {
		return false
	}
	_, ok = coll[id]
	return ok
}

// cosineSimilarity returns the cosine of the angle between a and b clamped
// to [0, 1]. Zero vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return float32(sim)
}
