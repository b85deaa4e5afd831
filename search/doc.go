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


// Package search provides semantic search over the knowledge graph.
//
// A query is embedded once and fanned out across the vector collections of
// the embeddable node types. Chunk-level hits are merged to their
// best-scoring node, and every node is then resolved from the graph store,
// which remains the source of truth: hits whose node no longer exists are
// dropped rather than returned stale.
package search
