package similarity

import (
	"fmt"
	"math"
	"sort"

	"bibliometric-api/internal/preprocess"
)

// TFIDFParams configures the TF-IDF vectorizer used by TFIDFCosine.
type TFIDFParams struct {
	Preprocess preprocess.Config
	// Sublinear applies 1+log(tf) scaling instead of raw term frequency.
	Sublinear bool
}

// DefaultTFIDFParams mirrors the default text preprocessing pipeline with
// unigrams only.
func DefaultTFIDFParams() TFIDFParams {
	return TFIDFParams{Preprocess: preprocess.DefaultConfig()}
}

// TFIDFCosine measures similarity as the cosine of the two texts' TF-IDF
// vectors, computed over the two-document corpus formed by the pair
// itself.
type TFIDFCosine struct {
	params TFIDFParams
}

func NewTFIDFCosine(params TFIDFParams) *TFIDFCosine {
	return &TFIDFCosine{params: params}
}

func (t *TFIDFCosine) Name() string { return "tfidf_cosine" }

func (t *TFIDFCosine) Similarity(text1, text2 string) float64 {
	t1, t2, v, handled := normalizeInputs(text1, text2)
	if handled {
		return v
	}
	vec1, vec2, _ := t.vectorize(t1, t2)
	return clamp01(cosineSim(vec1, vec2))
}

func (t *TFIDFCosine) Analyze(text1, text2 string) Diagnostic {
	t1, t2, v, handled := normalizeInputs(text1, text2)
	if handled {
		return Diagnostic{
			Algorithm:   t.Name(),
			Similarity:  v,
			Details:     map[string]any{"vocabulary_size": 0, "shared_terms": []string{}},
			Explanation: "one or both texts were empty after trimming",
		}
	}

	vec1, vec2, vocab := t.vectorize(t1, t2)
	sim := clamp01(cosineSim(vec1, vec2))

	var shared []string
	for _, term := range vocab {
		if vec1[term] > 0 && vec2[term] > 0 {
			shared = append(shared, term)
		}
	}
	sort.Strings(shared)

	return Diagnostic{
		Algorithm:  t.Name(),
		Similarity: sim,
		Details: map[string]any{
			"vocabulary_size": len(vocab),
			"shared_terms":    shared,
			"vector1":         vec1,
			"vector2":         vec2,
		},
		Explanation: fmt.Sprintf("cosine similarity %.4f over a %d-term vocabulary with %d shared terms", sim, len(vocab), len(shared)),
	}
}

// vectorize builds TF-IDF weight maps for text1 and text2 over the
// 2-document corpus {text1, text2}, returning the shared vocabulary in
// stable sorted order.
func (t *TFIDFCosine) vectorize(text1, text2 string) (map[string]float64, map[string]float64, []string) {
	toks1 := preprocess.Preprocess(text1, t.params.Preprocess)
	toks2 := preprocess.Preprocess(text2, t.params.Preprocess)

	tf1 := termFreq(toks1, t.params.Sublinear)
	tf2 := termFreq(toks2, t.params.Sublinear)

	vocabSet := make(map[string]struct{}, len(tf1)+len(tf2))
	for term := range tf1 {
		vocabSet[term] = struct{}{}
	}
	for term := range tf2 {
		vocabSet[term] = struct{}{}
	}
	vocab := make([]string, 0, len(vocabSet))
	for term := range vocabSet {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	idf := make(map[string]float64, len(vocab))
	for _, term := range vocab {
		df := 0
		if _, ok := tf1[term]; ok {
			df++
		}
		if _, ok := tf2[term]; ok {
			df++
		}
		// Smoothed IDF: ln((1+N)/(1+df)) + 1, N=2 documents.
		idf[term] = math.Log(3.0/float64(1+df)) + 1
	}

	vec1 := make(map[string]float64, len(vocab))
	vec2 := make(map[string]float64, len(vocab))
	for _, term := range vocab {
		vec1[term] = tf1[term] * idf[term]
		vec2[term] = tf2[term] * idf[term]
	}
	return vec1, vec2, vocab
}

func termFreq(tokens []string, sublinear bool) map[string]float64 {
	counts := make(map[string]int)
	for _, tok := range tokens {
		counts[tok]++
	}
	tf := make(map[string]float64, len(counts))
	for term, c := range counts {
		if sublinear {
			tf[term] = 1 + math.Log(float64(c))
		} else {
			tf[term] = float64(c)
		}
	}
	return tf
}

// cosineSim computes the cosine similarity between two sparse vectors
// represented as term->weight maps. Returns 0 when either vector has
// zero magnitude.
func cosineSim(v1, v2 map[string]float64) float64 {
	var dot, mag1, mag2 float64
	for term, w1 := range v1 {
		mag1 += w1 * w1
		if w2, ok := v2[term]; ok {
			dot += w1 * w2
		}
	}
	for _, w2 := range v2 {
		mag2 += w2 * w2
	}
	if mag1 == 0 || mag2 == 0 {
		return 0
	}
	return dot / (math.Sqrt(mag1) * math.Sqrt(mag2))
}
