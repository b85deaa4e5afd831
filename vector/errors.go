package vector

import "errors"

// Sentinel errors for vector-store operations.
var (
	// ErrCollectionNotFound indicates the collection has never been written.
	ErrCollectionNotFound = errors.New("vector: collection not found")

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// store's configured dimensionality.
	ErrDimensionMismatch = errors.New("vector: dimension mismatch")
)

// Op constants name the failing store operation for error context.
const (
	OpUpsert           = "upsert"
	OpDelete           = "delete"
	OpDeleteCollection = "delete-collection"
	OpSearch           = "search"
	OpCreateIndex      = "create-index"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
