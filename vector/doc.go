// Package vector defines the client contract for the external vector
// store. Entries are keyed by deterministic chunk ids, which makes the
// whole store reconstructible from the graph store; every caller treats
// it as a best-effort, cache-like secondary index.
//
// vector/redis provides the production client (Redis with RediSearch
// vector indexes); vector/memory provides an in-process store for tests
// and embedded use.
package vector
