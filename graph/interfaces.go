package graph

import (
	"context"

	"github.com/poiesic/vowvector/core"
)

// ListOptions narrows and pages a node listing.
type ListOptions struct {
	// Type filters to a single node type when non-nil.
	Type *core.NodeType
	// Offset skips the first N matching nodes.
	Offset int
	// Limit caps the number of returned nodes; <= 0 means no cap.
	Limit int
}

// NodeRepository provides authoritative CRUD for nodes. Every other
// component treats its return values as ground truth: a node exists if and
// only if CreateNode returned success, regardless of the vector store.
// Implementations must be thread-safe and strongly consistent per node id.
type NodeRepository interface {
	// CreateNode persists a new node. The record's Id must already be
	// assigned. Sets CreatedAt/UpdatedAt. Returns ErrDuplicateId if the id
	// is already present.
	CreateNode(ctx context.Context, record *core.NodeRecord) (*core.NodeRecord, error)

	// GetNode retrieves a node by id. Returns ErrNotFound if absent.
	GetNode(ctx context.Context, id string) (*core.NodeRecord, error)

	// UpdateNode applies a patch to an existing node and bumps UpdatedAt.
	// Nil patch fields leave the corresponding record fields unchanged;
	// patch metadata is merged over the existing map.
	// Returns ErrNotFound if the node doesn't exist.
	UpdateNode(ctx context.Context, id string, patch *core.NodePatch) (*core.NodeRecord, error)

	// DeleteNode removes a node and cascade-deletes every relationship that
	// has the node as source or target, so no dangling endpoints remain.
	// Returns ErrNotFound if the node doesn't exist.
	DeleteNode(ctx context.Context, id string) error

	// ListNodes returns nodes ordered by creation time descending.
	ListNodes(ctx context.Context, opts ListOptions) ([]*core.NodeRecord, error)
}

// RelationshipRepository provides CRUD for directed, typed edges.
type RelationshipRepository interface {
	// CreateRelationship persists an edge after verifying both endpoints
	// exist. Creating the same (source, target, type) twice overwrites the
	// properties. Returns ErrNotFound if either endpoint is absent.
	CreateRelationship(ctx context.Context, rel *core.Relationship) (*core.Relationship, error)

	// DeleteRelationship removes one edge identified by its full key.
	// Returns ErrNotFound if no such edge exists.
	DeleteRelationship(ctx context.Context, sourceID, targetID string, relType core.RelationshipType) error

	// ListRelationships returns all edges where the node is the source or
	// the target.
	ListRelationships(ctx context.Context, nodeID string) ([]*core.Relationship, error)
}

// Repository is the full graph store contract.
type Repository interface {
	NodeRepository
	RelationshipRepository

	// Close releases the underlying storage resources.
	Close() error
}
