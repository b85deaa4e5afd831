// Package reindex rebuilds the vector store from the graph store.
//
// The graph store is authoritative and every vector id is deterministic, so
// a full rebuild is always possible: purge the collections, walk the nodes,
// re-chunk, re-embed, upsert. The package supports batch processing,
// progress tracking, and retry logic with exponential backoff, and heals
// chunk_count metadata that drifted from the node's content.
package reindex
