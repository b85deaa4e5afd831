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

import "errors"

// Domain validation errors
var (
	// ErrInvalidNodeRecord indicates a NodeRecord failed validation.
	ErrInvalidNodeRecord = errors.New("invalid node record")

	// ErrInvalidRelationship indicates a Relationship failed validation.
	ErrInvalidRelationship = errors.New("invalid relationship")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong indicates the Title exceeds MaxTitleLength characters.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrUnknownNodeType indicates a NodeType outside the defined set.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrUnknownRelationshipType indicates a RelationshipType outside the defined set.
	ErrUnknownRelationshipType = errors.New("unknown relationship type")

	// ErrEmptyNodeId indicates a relationship endpoint is missing.
	ErrEmptyNodeId = errors.New("node id cannot be empty")

	// ErrSelfRelationship indicates source and target are the same node.
	ErrSelfRelationship = errors.New("relationship cannot point to its own source")
)
