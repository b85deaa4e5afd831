package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeTypeCollections(t *testing.T) {
	tests := []struct {
		nodeType   NodeType
		collection string
		embeddable bool
	}{
		{NodeTypeNote, "notes", true},
		{NodeTypeConcept, "notes", true},
		{NodeTypeCode, "code", true},
		{NodeTypeAIInteraction, "ai_interactions", true},
		{NodeTypeResearch, "research", true},
		{NodeTypeProject, "", false},
		{NodeTypeTag, "", false},
		{NodeTypeTopic, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.nodeType.String(), func(t *testing.T) {
			collection, ok := tt.nodeType.Collection()
			assert.Equal(t, tt.embeddable, ok)
			assert.Equal(t, tt.collection, collection)
			assert.Equal(t, tt.embeddable, tt.nodeType.Embeddable())
		})
	}
}

func TestParseNodeType(t *testing.T) {
	got, err := ParseNodeType("note")
	require.NoError(t, err)
	assert.Equal(t, NodeTypeNote, got)

	got, err = ParseNodeType("AIINTERACTION")
	require.NoError(t, err)
	assert.Equal(t, NodeTypeAIInteraction, got)

	_, err = ParseNodeType("banana")
	assert.ErrorIs(t, err, ErrUnknownNodeType)
}

func TestNodeTypeValid(t *testing.T) {
	assert.True(t, NodeTypeNote.Valid())
	assert.False(t, NodeType(0).Valid())
	assert.False(t, NodeType(99).Valid())
	assert.Empty(t, NodeType(99).String())
}

func TestCollectionsAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Collections() {
		assert.False(t, seen[c], "duplicate collection %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 4)
}

func TestParseRelationshipType(t *testing.T) {
	got, err := ParseRelationshipType("relates_to")
	require.NoError(t, err)
	assert.Equal(t, RelationshipRelatesTo, got)

	_, err = ParseRelationshipType("LIKES")
	assert.ErrorIs(t, err, ErrUnknownRelationshipType)
}
