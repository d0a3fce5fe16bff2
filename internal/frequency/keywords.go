package frequency

import (
	"math"
	"sort"
	"strings"

	"bibliometric-api/internal/preprocess"
)

// KeywordMethod selects the automatic keyword extraction algorithm of
// three interchangeable extraction modes.
type KeywordMethod string

const (
	MethodTFIDF      KeywordMethod = "tfidf"
	MethodFrequency  KeywordMethod = "frequency"
	MethodCombined   KeywordMethod = "combined"
)

// Keyword is one ranked entry of an extraction result.
type Keyword struct {
	Term      string  `json:"term"`
	Score     float64 `json:"score"`
	Frequency int     `json:"frequency"`
}

// KeywordParams configures extraction.
type KeywordParams struct {
	Method     KeywordMethod
	MaxKeyword int
	NgramRange [2]int
	MinDF      int
	MaxDFRatio float64
	Preprocess preprocess.Config
}

// DefaultKeywordParams mirrors the default preprocessing pipeline with
// unigrams and a 20-term cap.
func DefaultKeywordParams() KeywordParams {
	cfg := preprocess.DefaultConfig()
	return KeywordParams{
		Method:     MethodTFIDF,
		MaxKeyword: 20,
		NgramRange: [2]int{1, 1},
		MinDF:      1,
		MaxDFRatio: 1.0,
		Preprocess: cfg,
	}
}

// ExtractKeywords runs the configured method over corpus and returns the
// top-K ranked keywords.
func ExtractKeywords(corpus []string, params KeywordParams) []Keyword {
	if params.MaxKeyword <= 0 {
		params.MaxKeyword = 20
	}
	switch params.Method {
	case MethodFrequency:
		return extractByFrequency(corpus, params)
	case MethodCombined:
		return extractCombined(corpus, params)
	default:
		return extractByTFIDF(corpus, params)
	}
}

// extractByTFIDF fits a multi-document TF-IDF vectorizer with the
// configured n-gram range and document-frequency bounds, scores each term
// by the sum of its weights across documents, and returns the top-K.
func extractByTFIDF(corpus []string, params KeywordParams) []Keyword {
	cfg := params.Preprocess
	a, b := params.NgramRange[0], params.NgramRange[1]
	if a <= 0 {
		a = 1
	}
	if b < a {
		b = a
	}
	cfg.NgramRange = [2]int{a, b}

	docTerms := make([]map[string]int, len(corpus))
	rawFreq := make(map[string]int)
	df := make(map[string]int)
	for i, doc := range corpus {
		tokens := preprocess.Preprocess(doc, cfg)
		counts := make(map[string]int)
		for _, t := range tokens {
			counts[t]++
			rawFreq[t]++
		}
		docTerms[i] = counts
		for t := range counts {
			df[t]++
		}
	}

	n := len(corpus)
	maxDF := int(math.Ceil(params.MaxDFRatio * float64(n)))
	if maxDF <= 0 {
		maxDF = n
	}
	minDF := params.MinDF
	if minDF <= 0 {
		minDF = 1
	}

	scores := make(map[string]float64)
	for term, docFreq := range df {
		if docFreq < minDF || docFreq > maxDF {
			continue
		}
		idf := math.Log(float64(1+n)/float64(1+docFreq)) + 1
		for _, counts := range docTerms {
			if tf, ok := counts[term]; ok {
				scores[term] += float64(tf) * idf
			}
		}
	}

	return topK(scores, rawFreq, params.MaxKeyword)
}

// extractByFrequency aggregates raw token counts after stop-word removal
// and lemmatization and returns the top-K by count.
func extractByFrequency(corpus []string, params KeywordParams) []Keyword {
	cfg := params.Preprocess
	cfg.RemoveStopwords = true
	cfg.Lemmatize = true
	a, b := params.NgramRange[0], params.NgramRange[1]
	if a <= 0 {
		a = 1
	}
	if b < a {
		b = a
	}
	cfg.NgramRange = [2]int{a, b}

	counts := make(map[string]int)
	for _, doc := range corpus {
		for _, t := range preprocess.Preprocess(doc, cfg) {
			counts[t]++
		}
	}

	scores := make(map[string]float64, len(counts))
	for t, c := range counts {
		scores[t] = float64(c)
	}
	return topK(scores, counts, params.MaxKeyword)
}

// extractCombined unions the top-K from both modes, deduplicates, and
// sorts by average rank across the two lists (a term appearing only in
// one list is ranked using that list's position alone).
func extractCombined(corpus []string, params KeywordParams) []Keyword {
	tfidfList := extractByTFIDF(corpus, params)
	freqList := extractByFrequency(corpus, params)

	rank := make(map[string][]int)
	for i, kw := range tfidfList {
		rank[kw.Term] = append(rank[kw.Term], i+1)
	}
	for i, kw := range freqList {
		rank[kw.Term] = append(rank[kw.Term], i+1)
	}

	freqByTerm := make(map[string]int)
	scoreByTerm := make(map[string]float64)
	for _, kw := range tfidfList {
		freqByTerm[kw.Term] = kw.Frequency
		scoreByTerm[kw.Term] = kw.Score
	}
	for _, kw := range freqList {
		if _, ok := freqByTerm[kw.Term]; !ok {
			freqByTerm[kw.Term] = kw.Frequency
		}
		if _, ok := scoreByTerm[kw.Term]; !ok {
			scoreByTerm[kw.Term] = kw.Score
		}
	}

	type ranked struct {
		term    string
		avgRank float64
	}
	all := make([]ranked, 0, len(rank))
	for term, ranks := range rank {
		sum := 0
		for _, r := range ranks {
			sum += r
		}
		all = append(all, ranked{term: term, avgRank: float64(sum) / float64(len(ranks))})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].avgRank != all[j].avgRank {
			return all[i].avgRank < all[j].avgRank
		}
		return all[i].term < all[j].term
	})

	max := params.MaxKeyword
	if max > len(all) {
		max = len(all)
	}
	out := make([]Keyword, 0, max)
	for _, r := range all[:max] {
		out = append(out, Keyword{Term: r.term, Score: scoreByTerm[r.term], Frequency: freqByTerm[r.term]})
	}
	return out
}

// topK sorts scores descending (ties broken alphabetically for
// determinism) and returns the top max entries paired with raw frequency.
func topK(scores map[string]float64, freq map[string]int, max int) []Keyword {
	terms := make([]string, 0, len(scores))
	for t := range scores {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if scores[terms[i]] != scores[terms[j]] {
			return scores[terms[i]] > scores[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if max > len(terms) {
		max = len(terms)
	}
	out := make([]Keyword, 0, max)
	for _, t := range terms[:max] {
		out = append(out, Keyword{Term: t, Score: scores[t], Frequency: freq[t]})
	}
	return out
}

// normalizedTerm lowercases and trims a term for exact/partial matching
// in precision/recall evaluation.
func normalizedTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
