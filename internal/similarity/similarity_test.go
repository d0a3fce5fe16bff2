package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevenshtein_KittenSitting(t *testing.T) {
	lev := NewLevenshtein()
	sim := lev.Similarity("kitten", "sitting")
	assert.InDelta(t, 0.5714, sim, 0.001)

	diag := lev.Analyze("kitten", "sitting")
	assert.Equal(t, 3, diag.Details["distance"])
	script, ok := diag.Details["edit_script"].([]editOp)
	require.True(t, ok)
	assert.Len(t, script, 7)
}

func TestLevenshtein_IdenticalTexts(t *testing.T) {
	lev := NewLevenshtein()
	assert.Equal(t, 1.0, lev.Similarity("same text", "same text"))
}

func TestLevenshtein_EmptyTextEdgeCases(t *testing.T) {
	lev := NewLevenshtein()
	assert.Equal(t, 1.0, lev.Similarity("", ""))
	assert.Equal(t, 0.0, lev.Similarity("", "nonempty"))
}

func TestTFIDFCosine_IdenticalTextsScoreOne(t *testing.T) {
	tfidf := NewTFIDFCosine(DefaultTFIDFParams())
	sim := tfidf.Similarity("generative artificial intelligence models", "generative artificial intelligence models")
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestTFIDFCosine_DisjointTextsScoreZero(t *testing.T) {
	tfidf := NewTFIDFCosine(DefaultTFIDFParams())
	sim := tfidf.Similarity("quantum chemistry simulation", "medieval agricultural taxation")
	assert.InDelta(t, 0.0, sim, 1e-9)
}

func TestJaccard_TokenMode(t *testing.T) {
	j := NewJaccard(JaccardModeToken, 0)
	diag := j.Analyze("large language model training", "large language model evaluation")
	assert.Greater(t, diag.Similarity, 0.0)
	assert.Less(t, diag.Similarity, 1.0)
}

func TestJaccard_CharNGramMode(t *testing.T) {
	j := NewJaccard(JaccardModeCharNGram, 3)
	sim := j.Similarity("transformer", "transformer")
	assert.Equal(t, 1.0, sim)
}

func TestNGram_ReportsAllThreeMetrics(t *testing.T) {
	ng := NewNGram(3, NGramUnitCharacter)
	diag := ng.Analyze("clustering algorithm", "clustering algorithms")
	assert.Contains(t, diag.Details, "dice")
	assert.Contains(t, diag.Details, "jaccard")
	assert.Contains(t, diag.Details, "cosine")
}

func TestBERTEmbedding_Deterministic(t *testing.T) {
	cache := NewModelCache()
	bert := NewBERTEmbedding(cache)
	first := bert.Similarity("neural network pretraining", "neural network fine-tuning")
	second := bert.Similarity("neural network pretraining", "neural network fine-tuning")
	assert.Equal(t, first, second)
}

func TestSentenceEmbedding_IdenticalTextsScoreOne(t *testing.T) {
	cache := NewModelCache()
	se := NewSentenceEmbedding(cache)
	sim := se.Similarity("diffusion models for image synthesis", "diffusion models for image synthesis")
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestRegistry_DispatchByName(t *testing.T) {
	reg := NewRegistry(NewModelCache())
	for _, name := range []string{"levenshtein", "tfidf_cosine", "jaccard", "ngram", "bert_embedding", "sentence_embedding"} {
		_, ok := reg.Get(name)
		assert.True(t, ok, "expected algorithm %s to be registered", name)
	}
	_, ok := reg.Get("not_a_real_algorithm")
	assert.False(t, ok)
}

func TestCompareAll_CompositeWithinRange(t *testing.T) {
	reg := NewRegistry(NewModelCache())
	cmp := CompareAll(reg, "generative adversarial networks", "generative adversarial network architectures", nil)
	assert.GreaterOrEqual(t, cmp.Composite, 0.0)
	assert.LessOrEqual(t, cmp.Composite, 1.0)
	assert.Len(t, cmp.Results, 6)
	assert.NotEmpty(t, cmp.Recommended)
}

func TestCompare_UnknownAlgorithmErrors(t *testing.T) {
	reg := NewRegistry(NewModelCache())
	_, err := Compare(reg, "does_not_exist", "a", "b")
	assert.Error(t, err)
}
