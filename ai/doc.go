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


// Package ai provides abstractions for the embedding services used by
// vowvector.
//
// The package defines the Embedder interface, a fixed-dimension enforcement
// wrapper, and an error taxonomy that lets the ingestion pipeline tell
// transient service failures apart from misconfiguration:
//
//   - ErrUnreachable: the service cannot be reached
//   - ErrShapeMismatch: the service returned the wrong number or width of vectors
//   - ErrModelNotLoaded: the configured model is absent from the service
//
// All of them wrap ErrEmbedding, so a caller that only needs "did the vector
// side fail" can match on the parent.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewEmbedder) return the Embedder interface to
// enforce abstraction; mock constructors return concrete types so tests can
// inject behavior and assert call counts.
package ai
