package similarity

import (
	"fmt"

	"bibliometric-api/internal/preprocess"
)

const sentenceDim = 384

// SentenceEmbedding models a sentence-transformer style encoder: one
// dense vector per text compared by dot product on L2-normalized vectors,
// equivalent to cosine similarity. Like BERTEmbedding it never fetches a
// network model; it is backed by the same deterministic hash-projection
// stand-in, which builds that vector by mean-pooling per-token
// projections, under a different cache key and dimensionality.
type SentenceEmbedding struct {
	cache *ModelCache
}

func NewSentenceEmbedding(cache *ModelCache) *SentenceEmbedding {
	return &SentenceEmbedding{cache: cache}
}

func (s *SentenceEmbedding) Name() string { return "sentence_embedding" }

func (s *SentenceEmbedding) embedder() Embedder {
	return s.cache.Get(s.Name(), func() Embedder {
		cfg := preprocess.DefaultConfig()
		cfg.Lemmatize = false
		return newHashEmbedder(s.Name(), sentenceDim, cfg)
	})
}

func (s *SentenceEmbedding) Similarity(text1, text2 string) float64 {
	t1, t2, v, handled := normalizeInputs(text1, text2)
	if handled {
		return v
	}
	e := s.embedder()
	return clamp01(dotProduct(e.Embed(t1), e.Embed(t2)))
}

func (s *SentenceEmbedding) Analyze(text1, text2 string) Diagnostic {
	t1, t2, v, handled := normalizeInputs(text1, text2)
	if handled {
		return Diagnostic{
			Algorithm:   s.Name(),
			Similarity:  v,
			Details:     map[string]any{"dimensions": sentenceDim},
			Explanation: "one or both texts were empty after trimming",
		}
	}

	e := s.embedder()
	vec1, vec2 := e.Embed(t1), e.Embed(t2)
	sim := clamp01(dotProduct(vec1, vec2))

	return Diagnostic{
		Algorithm:  s.Name(),
		Similarity: sim,
		Details: map[string]any{
			"dimensions": sentenceDim,
			"comparison": "dot_product_normalized",
			"norm1":      l2Norm(vec1),
			"norm2":      l2Norm(vec2),
		},
		Explanation: fmt.Sprintf("dot product %.4f between %d-dim L2-normalized sentence vectors", sim, sentenceDim),
	}
}

// dotProduct assumes both vectors are already L2-normalized (true for
// hashEmbedder output), making it equivalent to cosine similarity.
func dotProduct(v1, v2 []float64) float64 {
	if len(v1) != len(v2) {
		return 0
	}
	var dot float64
	for i := range v1 {
		dot += v1[i] * v2[i]
	}
	return dot
}
