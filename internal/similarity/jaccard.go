package similarity

import (
	"fmt"
	"sort"
	"strings"

	"bibliometric-api/internal/preprocess"
)

// JaccardMode selects how Jaccard builds its token sets.
type JaccardMode string

const (
	JaccardModeToken     JaccardMode = "token"
	JaccardModeCharNGram JaccardMode = "char_ngram"
)

// Jaccard computes set-based similarity as |A∩B| / |A∪B| over either
// preprocessed word tokens or character n-grams.
type Jaccard struct {
	mode JaccardMode
	n    int // n-gram size, used only when mode == JaccardModeCharNGram
}

func NewJaccard(mode JaccardMode, n int) *Jaccard {
	if n <= 0 {
		n = 3
	}
	return &Jaccard{mode: mode, n: n}
}

func (j *Jaccard) Name() string { return "jaccard" }

func (j *Jaccard) Similarity(text1, text2 string) float64 {
	t1, t2, v, handled := normalizeInputs(text1, text2)
	if handled {
		return v
	}
	set1, set2 := j.sets(t1, t2)
	return clamp01(jaccardRatio(set1, set2))
}

func (j *Jaccard) Analyze(text1, text2 string) Diagnostic {
	t1, t2, v, handled := normalizeInputs(text1, text2)
	if handled {
		return Diagnostic{
			Algorithm:   j.Name(),
			Similarity:  v,
			Details:     map[string]any{"mode": string(j.mode), "intersection": []string{}, "union_size": 0},
			Explanation: "one or both texts were empty after trimming",
		}
	}

	set1, set2 := j.sets(t1, t2)
	inter := intersect(set1, set2)
	union := unionSize(set1, set2)
	sim := clamp01(jaccardRatio(set1, set2))

	return Diagnostic{
		Algorithm:  j.Name(),
		Similarity: sim,
		Details: map[string]any{
			"mode":          string(j.mode),
			"intersection":  inter,
			"intersection_size": len(inter),
			"union_size":    union,
			"set1_size":     len(set1),
			"set2_size":     len(set2),
		},
		Explanation: fmt.Sprintf("%d shared of %d %s elements -> similarity %.4f", len(inter), union, j.mode, sim),
	}
}

func (j *Jaccard) sets(t1, t2 string) (map[string]struct{}, map[string]struct{}) {
	if j.mode == JaccardModeCharNGram {
		return charNGramSet(t1, j.n), charNGramSet(t2, j.n)
	}
	cfg := preprocess.DefaultConfig()
	toks1 := preprocess.Preprocess(t1, cfg)
	toks2 := preprocess.Preprocess(t2, cfg)
	return toSet(toks1), toSet(toks2)
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// charNGramSet builds the set of contiguous character n-grams from the
// lowercased, whitespace-collapsed text.
func charNGramSet(text string, n int) map[string]struct{} {
	s := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	runes := []rune(s)
	set := make(map[string]struct{})
	if len(runes) < n {
		if len(runes) > 0 {
			set[string(runes)] = struct{}{}
		}
		return set
	}
	for i := 0; i+n <= len(runes); i++ {
		set[string(runes[i:i+n])] = struct{}{}
	}
	return set
}

func jaccardRatio(set1, set2 map[string]struct{}) float64 {
	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}
	inter := len(intersect(set1, set2))
	union := unionSize(set1, set2)
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func intersect(set1, set2 map[string]struct{}) []string {
	var out []string
	for k := range set1 {
		if _, ok := set2[k]; ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func unionSize(set1, set2 map[string]struct{}) int {
	union := make(map[string]struct{}, len(set1)+len(set2))
	for k := range set1 {
		union[k] = struct{}{}
	}
	for k := range set2 {
		union[k] = struct{}{}
	}
	return len(union)
}
