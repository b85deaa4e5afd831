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


// Package ingestion orchestrates node writes across the graph store and the
// vector store.
//
// # Consistency Model
//
// The graph store is authoritative. Every operation commits there first;
// only after the graph write succeeds does the pipeline touch the embedding
// service or the vector store. Failures on the vector side never fail the
// operation — they mark the Result as degraded and record warnings, because
// the vector store is fully reconstructible:
//
// Each chunk's vector id is a deterministic hash of (node id, chunk index),
// and every node's chunk count is stamped into its metadata on write. The
// previous id set of any node can therefore be reconstructed from the graph
// store alone, which is how updates delete orphaned chunks and how deletes
// clean up without ever querying the vector store for its contents.
//
// A per-node-id lock is held from before the graph write until vector
// reconciliation finishes, so concurrent writers to the same node cannot
// interleave their phases and leave the stores disagreeing about the chunk
// count.
//
// The reindex package rebuilds the vector store from scratch using the same
// invariants.
package ingestion
