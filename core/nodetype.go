package core

import "strings"

// NodeType classifies a node and decides whether (and where) its chunks are
// embedded. The set is closed: unknown types never enter the system.
type NodeType int

const (
	// NodeTypeNote is free-form text. Embeddable.
	NodeTypeNote NodeType = iota + 1
	// NodeTypeCode is source code or configuration. Embeddable.
	NodeTypeCode
	// NodeTypeAIInteraction is an imported AI conversation. Embeddable.
	NodeTypeAIInteraction
	// NodeTypeResearch is reference material. Embeddable.
	NodeTypeResearch
	// NodeTypeProject is a grouping node. Not embeddable.
	NodeTypeProject
	// NodeTypeConcept is an extracted concept. Embedded with notes.
	NodeTypeConcept
	// NodeTypeTag is a tag node. Not embeddable.
	NodeTypeTag
	// NodeTypeTopic is a topic cluster node. Not embeddable.
	NodeTypeTopic
)

var nodeTypeNames = map[NodeType]string{
	NodeTypeNote:          "Note",
	NodeTypeCode:          "Code",
	NodeTypeAIInteraction: "AIInteraction",
	NodeTypeResearch:      "Research",
	NodeTypeProject:       "Project",
	NodeTypeConcept:       "Concept",
	NodeTypeTag:           "Tag",
	NodeTypeTopic:         "Topic",
}

// nodeTypeCollections maps each node type to its vector collection.
// Types absent from the map never produce vectors.
var nodeTypeCollections = map[NodeType]string{
	NodeTypeNote:          "notes",
	NodeTypeCode:          "code",
	NodeTypeAIInteraction: "ai_interactions",
	NodeTypeResearch:      "research",
	NodeTypeConcept:       "notes",
}

// String returns the canonical name of the node type, or "" if invalid.
func (t NodeType) String() string {
	return nodeTypeNames[t]
}

// Valid reports whether t is one of the defined node types.
func (t NodeType) Valid() bool {
	_, ok := nodeTypeNames[t]
	return ok
}

// Collection returns the vector collection for the node type.
// ok is false for types that are never embedded.
func (t NodeType) Collection() (collection string, ok bool) {
	collection, ok = nodeTypeCollections[t]
	return collection, ok
}

// Embeddable reports whether chunks of this node type are stored in the
// vector store.
func (t NodeType) Embeddable() bool {
	_, ok := nodeTypeCollections[t]
	return ok
}

// ParseNodeType resolves a case-insensitive type name.
func ParseNodeType(name string) (NodeType, error) {
	for t, n := range nodeTypeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, ErrUnknownNodeType
}

// Collections returns the distinct vector collections in deterministic
// order. Used by search to fan out across all embeddable types.
func Collections() []string {
	return []string{"notes", "code", "ai_interactions", "research"}
}

// RelationshipType classifies a directed edge between two nodes.
type RelationshipType int

const (
	// RelationshipRelatesTo is the generic association.
	RelationshipRelatesTo RelationshipType = iota + 1
	// RelationshipImplements links code to the concept it realizes.
	RelationshipImplements
	// RelationshipGenerated links an AI interaction to its output.
	RelationshipGenerated
	// RelationshipSupports links evidence to a claim.
	RelationshipSupports
	// RelationshipBelongsTo links a node to its project.
	RelationshipBelongsTo
	// RelationshipHasTag links a node to a tag node.
	RelationshipHasTag
	// RelationshipInspiredBy records provenance between ideas.
	RelationshipInspiredBy
	// RelationshipRevisionOf links a node to the version it supersedes.
	RelationshipRevisionOf
)

var relationshipTypeNames = map[RelationshipType]string{
	RelationshipRelatesTo:  "RELATES_TO",
	RelationshipImplements: "IMPLEMENTS",
	RelationshipGenerated:  "GENERATED",
	RelationshipSupports:   "SUPPORTS",
	RelationshipBelongsTo:  "BELONGS_TO",
	RelationshipHasTag:     "HAS_TAG",
	RelationshipInspiredBy: "INSPIRED_BY",
	RelationshipRevisionOf: "REVISION_OF",
}

// String returns the canonical name of the relationship type, or "" if invalid.
func (t RelationshipType) String() string {
	return relationshipTypeNames[t]
}

// Valid reports whether t is one of the defined relationship types.
func (t RelationshipType) Valid() bool {
	_, ok := relationshipTypeNames[t]
	return ok
}

// ParseRelationshipType resolves a case-insensitive relationship name.
func ParseRelationshipType(name string) (RelationshipType, error) {
	for t, n := range relationshipTypeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, ErrUnknownRelationshipType
}
