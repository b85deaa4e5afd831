package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunkerValidation(t *testing.T) {
	_, err := NewChunker(0, 0)
	assert.ErrorIs(t, err, ErrInvalidChunkConfig)

	_, err = NewChunker(100, -1)
	assert.ErrorIs(t, err, ErrInvalidChunkConfig)

	_, err = NewChunker(100, 100)
	assert.ErrorIs(t, err, ErrInvalidChunkConfig, "overlap equal to size never advances")

	_, err = NewChunker(100, 150)
	assert.ErrorIs(t, err, ErrInvalidChunkConfig)

	c, err := NewChunker(100, 99)
	require.NoError(t, err)
	assert.Equal(t, 100, c.Size())
	assert.Equal(t, 99, c.Overlap())
}

func TestChunkBoundaries(t *testing.T) {
	c := DefaultChunker()

	tests := []struct {
		length int
		want   int
	}{
		{0, 0},
		{1, 1},
		{2999, 1},
		{3000, 1}, // exactly one window
		{3001, 2},
		{5800, 2}, // 3000 + (5800-2800) fits the second window exactly
		{5801, 3},
		{6000, 3},
	}

	for _, tt := range tests {
		text := strings.Repeat("a", tt.length)
		chunks := c.Chunk(text)
		assert.Len(t, chunks, tt.want, "length %d", tt.length)
		assert.Equal(t, tt.want, c.Count(tt.length), "Count must agree with Chunk for length %d", tt.length)
	}
}

func TestChunkOverlapContent(t *testing.T) {
	c, err := NewChunker(10, 3)
	require.NoError(t, err)

	text := "abcdefghijklmnop" // 16 chars
	chunks := c.Chunk(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, "abcdefghij", chunks[0])
	assert.Equal(t, "hijklmnop", chunks[1])

	// The tail of each chunk reappears at the head of the next.
	assert.Equal(t, chunks[0][7:], chunks[1][:3])
}

func TestChunkReassembly(t *testing.T) {
	c, err := NewChunker(10, 2)
	require.NoError(t, err)

	text := strings.Repeat("0123456789", 5)
	chunks := c.Chunk(text)

	// Dropping each chunk's leading overlap reconstructs the original.
	var b strings.Builder
	for i, chunk := range chunks {
		if i == 0 {
			b.WriteString(chunk)
		} else {
			b.WriteString(chunk[2:])
		}
	}
	assert.Equal(t, text, b.String())
}

func TestBucket(t *testing.T) {
	assert.Equal(t, BucketSmall, Bucket(0))
	assert.Equal(t, BucketSmall, Bucket(3000))
	assert.Equal(t, BucketMedium, Bucket(3001))
	assert.Equal(t, BucketMedium, Bucket(9000))
	assert.Equal(t, BucketLarge, Bucket(9001))
}
