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
	"strconv"
	"strings"
)

// Metadata keys derived by the ingestion pipeline. They are recomputed on
// every write and never taken from user input.
const (
	MetaCtxSize    = "ctx_size"    // character count of the content
	MetaCtxBucket  = "ctx_bucket"  // small / medium / large
	MetaChunkCount = "chunk_count" // number of chunks last written
	MetaChunked    = "chunked"     // whether chunk_count > 1
)

// MetaInt reads an integer metadata value. Returns 0 when the key is
// missing or malformed.
func MetaInt(metadata map[string]string, key string) int {
	v, err := strconv.Atoi(metadata[key])
	if err != nil {
		return 0
	}
	return v
}

// SetDerivedMetadata stamps the derived context fields onto metadata,
// overwriting any caller-supplied values for the same keys.
func SetDerivedMetadata(metadata map[string]string, ctxSize, chunkCount int, bucket string) {
	metadata[MetaCtxSize] = strconv.Itoa(ctxSize)
	metadata[MetaCtxBucket] = bucket
	metadata[MetaChunkCount] = strconv.Itoa(chunkCount)
	metadata[MetaChunked] = strconv.FormatBool(chunkCount > 1)
}

// MergeMetadata layers patch entries over base, returning a new map.
// Neither input is modified.
func MergeMetadata(base, patch map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(patch))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}

// NormalizeTags trims whitespace, drops empties, and removes duplicates
// while preserving first-seen order. Tag equality is order-insensitive,
// but display order follows insertion.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
