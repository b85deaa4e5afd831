package badger

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/vowvector/core"
)

// Key prefixes for different data types. Node ids never contain ':'
// (they are {type}_{sanitized-timestamp}), so ':' is a safe separator.
const (
	nodeRecordPrefix  = "nodrec"
	nodeCreatedPrefix = "nodcre"
	relForwardPrefix  = "relfwd"
	relInversePrefix  = "relinv"
)

// makeNodeKey generates a key for a node record by id.
func makeNodeKey(id string) []byte {
	return []byte(nodeRecordPrefix + ":" + id)
}

// makeNodeCreatedKey generates a composite key for the creation-time index.
// Format: prefix:timestamp:id, with the timestamp in BigEndian order so
// lexicographic sort matches chronological order.
func makeNodeCreatedKey(createdAt time.Time, id string) []byte {
	prefix := nodeCreatedPrefix + ":"
	buf := make([]byte, len(prefix)+8+len(id))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], id)
	return buf
}

// makeRelForwardKey generates the primary relationship key.
// Format: prefix:source:target:type
func makeRelForwardKey(sourceID, targetID string, relType core.RelationshipType) []byte {
	return []byte(relForwardPrefix + ":" + sourceID + ":" + targetID + ":" + strconv.Itoa(int(relType)))
}

// makeRelInverseKey generates the reverse index key used for cascade
// deletes and target-side listing.
// Format: prefix:target:source:type
func makeRelInverseKey(sourceID, targetID string, relType core.RelationshipType) []byte {
	return []byte(relInversePrefix + ":" + targetID + ":" + sourceID + ":" + strconv.Itoa(int(relType)))
}

// splitRelKey parses the two node ids and the type out of a forward or
// inverse relationship key, given its prefix.
func splitRelKey(key []byte, prefix string) (first, second string, relType core.RelationshipType, ok bool) {
	rest := strings.TrimPrefix(string(key), prefix+":")
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return "", "", 0, false
	}
	t, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", "", 0, false
	}
	return parts[0], parts[1], core.RelationshipType(t), true
}
