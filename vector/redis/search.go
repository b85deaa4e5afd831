package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/poiesic/vowvector/vector"
)

// scoreField is the distance field RediSearch attaches to KNN results.
const scoreField = "__vector_score"

// Search runs a KNN query over the collection's index and returns matches
// ordered by similarity descending. An absent index means the collection
// was never written; that maps to ErrCollectionNotFound.
func (s *Store) Search(ctx context.Context, collection string, query []float32, limit int) ([]vector.Match, error) {
	if len(query) != s.dim {
		return nil, &vector.Error{Op: vector.OpSearch, Err: vector.ErrDimensionMismatch}
	}
	if limit <= 0 {
		return nil, nil
	}

	cmd := s.client.B().Arbitrary("FT.SEARCH").Args(
		indexName(collection),
		fmt.Sprintf("*=>[KNN %d @%s $BLOB]", limit, vectorField),
		"PARAMS", "2", "BLOB", vectorToBytes(query),
		"SORTBY", scoreField,
		"LIMIT", "0", strconv.Itoa(limit),
		"DIALECT", "2",
	).Build()

	raw := s.client.Do(ctx, cmd)
	if err := raw.Error(); err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index") {
			return nil, &vector.Error{Op: vector.OpSearch, Err: vector.ErrCollectionNotFound}
		}
		return nil, &vector.Error{Op: vector.OpSearch, Err: err}
	}

	matches, err := parseKNNResult(raw, collection)
	if err != nil {
		return nil, &vector.Error{Op: vector.OpSearch, Err: err}
	}
	return matches, nil
}

// parseKNNResult decodes the RESP2 FT.SEARCH reply: a flat array of
// [total, key1, fields1, key2, fields2, ...] where each fields element is
// itself a flat field/value array.
func parseKNNResult(raw rueidis.RedisResult, collection string) ([]vector.Match, error) {
	arr, err := raw.ToArray()
	if err != nil {
		return nil, fmt.Errorf("unexpected search reply: %w", err)
	}
	if len(arr) == 0 {
		return nil, nil
	}

	matches := make([]vector.Match, 0, (len(arr)-1)/2)
	for i := 1; i+1 < len(arr); i += 2 {
		key, err := arr[i].ToString()
		if err != nil {
			return nil, fmt.Errorf("result key at %d: %w", i, err)
		}

		fields, err := arr[i+1].ToArray()
		if err != nil {
			return nil, fmt.Errorf("result fields for %s: %w", key, err)
		}

		m := vector.Match{
			ID:      pointID(collection, key),
			Payload: make(map[string]string, len(fields)/2),
		}
		for j := 0; j+1 < len(fields); j += 2 {
			name, err := fields[j].ToString()
			if err != nil {
				continue
			}
			value, err := fields[j+1].ToString()
			if err != nil {
				continue
			}
			switch name {
			case vectorField:
				// binary blob, not part of the payload
			case scoreField:
				m.Score = distanceToSimilarity(value)
			default:
				m.Payload[name] = value
			}
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// distanceToSimilarity converts a cosine distance string into a similarity
// clamped to [0, 1].
func distanceToSimilarity(raw string) float32 {
	dist, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0
	}
	sim := 1 - float32(dist)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// pointID strips the collection prefix from a Redis key, recovering the
// point id.
func pointID(collection, key string) string {
	prefix := collection + ":"
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		return key[len(prefix):]
	}
	return key
}
