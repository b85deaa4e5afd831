// Package graph defines the authoritative store contract for knowledge
// nodes and their relationships. The graph store is the single source of
// truth: the vector store is a derived index that can always be rebuilt
// from graph content via deterministic chunk ids.
//
// The graph/badger subpackage provides the BadgerDB implementation.
package graph
