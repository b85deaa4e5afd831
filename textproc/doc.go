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


// Package textproc prepares raw files for ingestion: byte-to-text
// extraction, node type detection from file extensions, title derivation,
// context bucketing, and sliding-window chunking.
//
// The chunker's size/overlap contract (3000/200 by default) is shared with
// the upstream document formatter: pre-chunked input produced there is
// interchangeable with output from this package.
package textproc
