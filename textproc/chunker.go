package textproc

import (
	"errors"
	"fmt"
)

// Chunking and bucketing defaults, shared with the upstream formatter.
const (
	DefaultChunkSize    = 3000
	DefaultChunkOverlap = 200

	smallBucketMax  = 3000
	mediumBucketMax = 9000
)

// Context bucket names.
const (
	BucketSmall  = "small"
	BucketMedium = "medium"
	BucketLarge  = "large"
)

// ErrInvalidChunkConfig indicates a chunker configuration that would
// produce degenerate or infinite windows.
var ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

// Bucket classifies a character count into small/medium/large.
// The thresholds are fixed; the bucket is always recomputed from the
// content, never taken from user input.
func Bucket(charCount int) string {
	switch {
	case charCount <= smallBucketMax:
		return BucketSmall
	case charCount <= mediumBucketMax:
		return BucketMedium
	default:
		return BucketLarge
	}
}

// Chunker splits text into fixed-size overlapping windows.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a Chunker after validating the configuration.
// overlap >= size is rejected: the window would never advance.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d must be positive", ErrInvalidChunkConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d cannot be negative", ErrInvalidChunkConfig, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than size %d", ErrInvalidChunkConfig, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// DefaultChunker returns a Chunker with the 3000/200 contract.
func DefaultChunker() *Chunker {
	c, err := NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	if err != nil {
		panic(err) // defaults are statically valid
	}
	return c
}

// Chunk splits text into windows of size characters advancing by
// size-overlap. The last window may be shorter. Text no longer than one
// window yields exactly one chunk equal to the full text; empty text
// yields no chunks.
func (c *Chunker) Chunk(text string) []string {
	if text == "" {
		return nil
	}

	var chunks []string
	length := len(text)
	for start := 0; start < length; {
		end := min(start+c.size, length)
		chunks = append(chunks, text[start:end])
		if end == length {
			break
		}
		start = end - c.overlap
	}
	return chunks
}

// Count predicts the number of chunks for a text of the given length:
// ceil(max(0, length-overlap) / (size-overlap)), minimum 1 for non-empty
// text. Matches Chunk exactly.
func (c *Chunker) Count(length int) int {
	if length <= 0 {
		return 0
	}
	if length <= c.size {
		return 1
	}
	stride := c.size - c.overlap
	return (length - c.overlap + stride - 1) / stride
}

// Size returns the window size in characters.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the window overlap in characters.
func (c *Chunker) Overlap() int { return c.overlap }
