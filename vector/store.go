package vector

import "context"

// Point is a single vector-store entry: a chunk embedding keyed by its
// deterministic id, with a flat payload for filtering and display.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]string
}

// Match is a similarity-search hit.
type Match struct {
	ID      string
	Score   float32
	Payload map[string]string
}

// Store is the vector-store contract. The store is a derived index: it is
// never authoritative, and callers treat every write as best-effort.
// Implementations must be thread-safe.
type Store interface {
	// Upsert writes points into a collection. Upserting an existing
	// (collection, id) pair overwrites the point, never duplicates it.
	// Collections are created lazily on first use.
	Upsert(ctx context.Context, collection string, points ...Point) error

	// DeleteByIDs removes points by id. Missing ids are not an error.
	DeleteByIDs(ctx context.Context, collection string, ids ...string) error

	// DeleteCollection removes a whole collection and its index.
	DeleteCollection(ctx context.Context, collection string) error

	// Search returns up to limit points most similar to the query vector,
	// ordered by similarity descending. Scores are cosine similarities
	// clamped to [0, 1].
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]Match, error)

	// Close releases the client connection.
	Close() error
}
