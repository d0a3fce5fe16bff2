package similarity

import (
	"fmt"
	"math"
	"strings"
)

// NGramUnit selects whether NGram operates over characters or whitespace
// tokens.
type NGramUnit string

const (
	NGramUnitCharacter NGramUnit = "character"
	NGramUnitWord      NGramUnit = "word"
)

// NGramMetric selects which of the three set-overlap formulas NGram
// reports as its primary similarity value.
type NGramMetric string

const (
	NGramMetricDice    NGramMetric = "dice"
	NGramMetricJaccard NGramMetric = "jaccard"
	NGramMetricCosine  NGramMetric = "cosine"
)

// NGram computes n-gram overlap and reports all three metrics
// (Dice, Jaccard, cosine over n-gram multisets), with
// Metric selecting which one Similarity/Analyze report as the headline
// value.
type NGram struct {
	n      int
	unit   NGramUnit
	Metric NGramMetric
}

func NewNGram(n int, unit NGramUnit) *NGram {
	if n <= 0 {
		n = 3
	}
	return &NGram{n: n, unit: unit, Metric: NGramMetricDice}
}

func (ng *NGram) Name() string { return "ngram" }

func (ng *NGram) Similarity(text1, text2 string) float64 {
	t1, t2, v, handled := normalizeInputs(text1, text2)
	if handled {
		return v
	}
	bag1, bag2 := ng.bags(t1, t2)
	dice, jac, cos := ngramMetrics(bag1, bag2)
	return clamp01(ng.pick(dice, jac, cos))
}

func (ng *NGram) Analyze(text1, text2 string) Diagnostic {
	t1, t2, v, handled := normalizeInputs(text1, text2)
	if handled {
		return Diagnostic{
			Algorithm:   ng.Name(),
			Similarity:  v,
			Details:     map[string]any{"n": ng.n, "unit": string(ng.unit)},
			Explanation: "one or both texts were empty after trimming",
		}
	}

	bag1, bag2 := ng.bags(t1, t2)
	dice, jac, cos := ngramMetrics(bag1, bag2)
	sim := clamp01(ng.pick(dice, jac, cos))

	return Diagnostic{
		Algorithm:  ng.Name(),
		Similarity: sim,
		Details: map[string]any{
			"n":       ng.n,
			"unit":    string(ng.unit),
			"metric":  string(ng.Metric),
			"dice":    clamp01(dice),
			"jaccard": clamp01(jac),
			"cosine":  clamp01(cos),
			"ngrams1": len(bag1),
			"ngrams2": len(bag2),
		},
		Explanation: fmt.Sprintf("%d-gram overlap (%s unit): dice=%.4f jaccard=%.4f cosine=%.4f", ng.n, ng.unit, clamp01(dice), clamp01(jac), clamp01(cos)),
	}
}

func (ng *NGram) pick(dice, jac, cos float64) float64 {
	switch ng.Metric {
	case NGramMetricJaccard:
		return jac
	case NGramMetricCosine:
		return cos
	default:
		return dice
	}
}

func (ng *NGram) bags(t1, t2 string) (map[string]int, map[string]int) {
	return ngramBag(t1, ng.n, ng.unit), ngramBag(t2, ng.n, ng.unit)
}

// ngramBag builds a multiset (count map) of n-grams over either
// characters or whitespace-delimited words.
func ngramBag(text string, n int, unit NGramUnit) map[string]int {
	s := strings.ToLower(text)
	bag := make(map[string]int)

	if unit == NGramUnitWord {
		words := strings.Fields(s)
		if len(words) < n {
			if len(words) > 0 {
				bag[strings.Join(words, " ")]++
			}
			return bag
		}
		for i := 0; i+n <= len(words); i++ {
			bag[strings.Join(words[i:i+n], " ")]++
		}
		return bag
	}

	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) < n {
		if len(runes) > 0 {
			bag[string(runes)]++
		}
		return bag
	}
	for i := 0; i+n <= len(runes); i++ {
		bag[string(runes[i:i+n])]++
	}
	return bag
}

// ngramMetrics returns Dice, Jaccard and cosine similarity computed over
// two n-gram multisets, treating each bag as a sparse count vector for
// the cosine computation.
func ngramMetrics(bag1, bag2 map[string]int) (dice, jaccard, cosine float64) {
	total1, total2 := sumCounts(bag1), sumCounts(bag2)
	if total1 == 0 && total2 == 0 {
		return 1, 1, 1
	}
	if total1 == 0 || total2 == 0 {
		return 0, 0, 0
	}

	var shared, dot, mag1, mag2 float64
	for k, c1 := range bag1 {
		mag1 += float64(c1 * c1)
		c2 := bag2[k]
		shared += float64(min(c1, c2))
		dot += float64(c1 * c2)
	}
	for _, c2 := range bag2 {
		mag2 += float64(c2 * c2)
	}

	dice = 2 * shared / (float64(total1) + float64(total2))
	jaccard = shared / unionAdjusted(shared, total1, total2)
	if mag1 == 0 || mag2 == 0 {
		cosine = 0
	} else {
		cosine = dot / (math.Sqrt(mag1) * math.Sqrt(mag2))
	}
	return
}

func sumCounts(bag map[string]int) int {
	total := 0
	for _, c := range bag {
		total += c
	}
	return total
}

// unionAdjusted computes the multiset-union size consistent with the
// shared (intersection) count already derived via min-counts.
func unionAdjusted(shared float64, total1, total2 int) float64 {
	union := float64(total1+total2) - shared
	if union == 0 {
		return 1
	}
	return union
}
