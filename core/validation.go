// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"unicode/utf8"
)

// MaxTitleLength is the maximum title length in characters.
const MaxTitleLength = 500

// ValidateNodeRecord validates a NodeRecord according to domain rules.
//
// Validation rules:
//   - Title must be 1 to MaxTitleLength characters
//   - Type must be a defined NodeType
//
// NOT validated:
//   - Content (empty content is legal; it simply produces no chunks)
//   - Metadata (derived keys are recomputed by the pipeline)
//   - Id (assigned by the pipeline at creation)
func ValidateNodeRecord(record *NodeRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidNodeRecord)
	}

	if err := ValidateTitle(record.Title); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNodeRecord, err)
	}

	if !record.Type.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidNodeRecord, ErrUnknownNodeType)
	}

	return nil
}

// ValidateTitle checks the title length bounds.
func ValidateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// ValidateNodePatch validates the populated fields of a patch.
func ValidateNodePatch(patch *NodePatch) error {
	if patch == nil {
		return nil
	}
	if patch.Title != nil {
		if err := ValidateTitle(*patch.Title); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidNodeRecord, err)
		}
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidNodeRecord, ErrUnknownNodeType)
	}
	return nil
}

// ValidateRelationship validates a Relationship according to domain rules.
//
// Validation rules:
//   - SourceId and TargetId must be non-empty and distinct
//   - Type must be a defined RelationshipType
func ValidateRelationship(rel *Relationship) error {
	if rel == nil {
		return fmt.Errorf("%w: relationship is nil", ErrInvalidRelationship)
	}

	if rel.SourceId == "" || rel.TargetId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRelationship, ErrEmptyNodeId)
	}

	if rel.SourceId == rel.TargetId {
		return fmt.Errorf("%w: %w", ErrInvalidRelationship, ErrSelfRelationship)
	}

	if !rel.Type.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidRelationship, ErrUnknownRelationshipType)
	}

	return nil
}
