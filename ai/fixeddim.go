package ai

import "context"

// Compile-time check: FixedDimEmbedder implements Embedder.
var _ Embedder = (*FixedDimEmbedder)(nil)

// FixedDimEmbedder wraps an Embedder and rejects results whose width or
// count differs from what was requested. A vector of the wrong shape must
// never reach the vector store, where it would poison the index.
type FixedDimEmbedder struct {
	inner Embedder
	dim   int
}

// NewFixedDimEmbedder wraps inner with shape enforcement at dim dimensions.
func NewFixedDimEmbedder(inner Embedder, dim int) *FixedDimEmbedder {
	return &FixedDimEmbedder{inner: inner, dim: dim}
}

// Dimensions returns the enforced dimensionality.
func (f *FixedDimEmbedder) Dimensions() int {
	return f.dim
}

// EmbedText embeds a single text and verifies its width.
func (f *FixedDimEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vec, err := f.inner.EmbedText(ctx, text)
	if err != nil {
		return nil, Classify(err)
	}
	if len(vec) != f.dim {
		return nil, ErrShapeMismatch
	}
	return vec, nil
}

// EmbedTexts embeds a batch and verifies both count and widths.
func (f *FixedDimEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := f.inner.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, Classify(err)
	}
	if len(vecs) != len(texts) {
		return nil, ErrShapeMismatch
	}
	for _, v := range vecs {
		if len(v) != f.dim {
			return nil, ErrShapeMismatch
		}
	}
	return vecs, nil
}
