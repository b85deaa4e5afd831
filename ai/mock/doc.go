// Package mock provides test doubles for the ai package. The mock embedder
// produces deterministic vectors from a text hash, so tests can assert on
// vector identity without an embedding service.
package mock
