package core

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// vectorIDNamespace scopes vector ids so they cannot collide with other
// hashed identifiers. Changing it invalidates every stored vector id.
const vectorIDNamespace = "vowvector.chunk"

// nodeIDSanitizer makes an RFC 3339 timestamp safe for use inside node ids
// that travel through URLs and store keys.
var nodeIDSanitizer = strings.NewReplacer(":", "-", ".", "-", "+", "p")

// NewNodeID builds a node id of the form {type}_{iso-timestamp}.
// Ids are assigned once at creation and never change.
func NewNodeID(t NodeType, now time.Time) string {
	ts := nodeIDSanitizer.Replace(now.UTC().Format(time.RFC3339Nano))
	return strings.ToLower(t.String()) + "_" + ts
}

// VectorID computes the deterministic vector-store id for a chunk.
// It is a pure function of (nodeID, chunkIndex): the same chunk position
// always maps to the same vector-store key across re-ingestions, which is
// what makes the vector store reconstructible from the graph store.
func VectorID(nodeID string, chunkIndex int) string {
	h, _ := blake2b.New(16, nil) // 16 bytes, hex-encoded to 32 chars
	h.Write([]byte(vectorIDNamespace))
	h.Write([]byte(":"))
	h.Write([]byte(nodeID))
	h.Write([]byte(":"))
	h.Write([]byte(strconv.Itoa(chunkIndex)))
	return hex.EncodeToString(h.Sum(nil))
}

// VectorIDs reconstructs the full id set for a node with count chunks.
// This is how the previous id set is recovered from chunk_count metadata
// without querying the vector store.
func VectorIDs(nodeID string, count int) []string {
	if count <= 0 {
		return nil
	}
	ids := make([]string, count)
	for i := range ids {
		ids[i] = VectorID(nodeID, i)
	}
	return ids
}
