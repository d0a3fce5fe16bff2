package similarity

import (
	"fmt"

	"bibliometric-api/internal/preprocess"
)

const bertDim = 128

// BERTEmbedding measures similarity as cosine similarity between
// mean-pooled token embeddings, modeling a BERT-style contextual encoder
// . The backend is loaded lazily from the shared
// ModelCache and is safe for concurrent use once built.
type BERTEmbedding struct {
	cache *ModelCache
}

func NewBERTEmbedding(cache *ModelCache) *BERTEmbedding {
	return &BERTEmbedding{cache: cache}
}

func (b *BERTEmbedding) Name() string { return "bert_embedding" }

func (b *BERTEmbedding) embedder() Embedder {
	return b.cache.Get(b.Name(), func() Embedder {
		return newHashEmbedder(b.Name(), bertDim, preprocess.DefaultConfig())
	})
}

func (b *BERTEmbedding) Similarity(text1, text2 string) float64 {
	t1, t2, v, handled := normalizeInputs(text1, text2)
	if handled {
		return v
	}
	e := b.embedder()
	return clamp01(cosineSimDense(e.Embed(t1), e.Embed(t2)))
}

func (b *BERTEmbedding) Analyze(text1, text2 string) Diagnostic {
	t1, t2, v, handled := normalizeInputs(text1, text2)
	if handled {
		return Diagnostic{
			Algorithm:   b.Name(),
			Similarity:  v,
			Details:     map[string]any{"dimensions": bertDim},
			Explanation: "one or both texts were empty after trimming",
		}
	}

	e := b.embedder()
	vec1, vec2 := e.Embed(t1), e.Embed(t2)
	sim := clamp01(cosineSimDense(vec1, vec2))

	return Diagnostic{
		Algorithm:  b.Name(),
		Similarity: sim,
		Details: map[string]any{
			"dimensions": bertDim,
			"pooling":    "mean",
			"norm1":      l2Norm(vec1),
			"norm2":      l2Norm(vec2),
		},
		Explanation: fmt.Sprintf("cosine similarity %.4f between %d-dim mean-pooled embeddings", sim, bertDim),
	}
}
