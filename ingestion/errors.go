package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a graph repository is not provided.
	ErrRepositoryRequired = errors.New("graph repository required")

	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmptyPatch is returned when an update carries no changes.
	ErrEmptyPatch = errors.New("patch contains no changes")

	// ErrUnsupportedFile is returned when a file's extension maps to no
	// known node type and no override was given.
	ErrUnsupportedFile = errors.New("unsupported file type")
)
