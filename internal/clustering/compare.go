package clustering

import (
	"fmt"
	"math"

	"bibliometric-api/internal/core"
)

// MethodComparison is the outcome of running every linkage criterion over
// the same document set and scoring each result with the documented
// weighted composite, adapted from the tagged-strategy decision-logging
// idiom used elsewhere in this codebase for picking among interchangeable
// algorithms.
type MethodComparison struct {
	Results     map[Linkage]*core.ClusteringResult `json:"results"`
	Scores      map[Linkage]float64                `json:"composite_scores"`
	Recommended Linkage                             `json:"recommended_linkage"`
	Reason      string                              `json:"reason"`
}

// compositeWeights are the documented method-comparison weights: cophenetic
// correlation 0.40, silhouette 0.30, Davies-Bouldin (inverted, normalized)
// 0.15, Calinski-Harabasz (normalized) 0.15.
const (
	weightCophenetic    = 0.40
	weightSilhouette    = 0.30
	weightDaviesBouldin = 0.15
	weightCalinski      = 0.15
)

// CompareMethods runs Ward, average and complete linkage over the same
// documents and recommends the method with the highest weighted composite
// score across cophenetic correlation, silhouette, Davies-Bouldin
// (inverted) and Calinski-Harabasz, each normalized across the candidates
// before weighting so the metrics' differing scales don't dominate the
// composite.
func CompareMethods(docs []string, base Params) (*MethodComparison, error) {
	linkages := []Linkage{LinkageWard, LinkageAverage, LinkageComplete}
	results := make(map[Linkage]*core.ClusteringResult, len(linkages))

	for _, l := range linkages {
		params := base
		params.Linkage = l
		result, err := Run(docs, params)
		if err != nil {
			return nil, fmt.Errorf("running %s linkage: %w", l, err)
		}
		results[l] = result
	}

	scores := compositeScores(linkages, results)

	best := linkages[0]
	bestScore := scores[best]
	for _, l := range linkages[1:] {
		if scores[l] > bestScore {
			bestScore = scores[l]
			best = l
		}
	}

	reason := fmt.Sprintf(
		"highest weighted composite score (%.4f) across cophenetic correlation (w=%.2f), silhouette (w=%.2f), Davies-Bouldin (w=%.2f), Calinski-Harabasz (w=%.2f)",
		bestScore, weightCophenetic, weightSilhouette, weightDaviesBouldin, weightCalinski,
	)
	return &MethodComparison{Results: results, Scores: scores, Recommended: best, Reason: reason}, nil
}

// compositeScores computes, for each linkage, the weighted sum of its four
// quality signals after min-max normalizing each signal across the
// candidates (Davies-Bouldin is inverted first since lower is better
// there). A signal missing for every candidate normalizes to 0.5 for each
// of them, adding the same amount to every score and so leaving the
// ranking unchanged; a signal missing for only some candidates counts as
// 0 for those.
func compositeScores(linkages []Linkage, results map[Linkage]*core.ClusteringResult) map[Linkage]float64 {
	cophenetic := make(map[Linkage]float64)
	silhouette := make(map[Linkage]float64)
	invDaviesBouldin := make(map[Linkage]float64)
	calinski := make(map[Linkage]float64)

	for _, l := range linkages {
		r := results[l]
		if r.CopheneticCorrelation != nil {
			cophenetic[l] = *r.CopheneticCorrelation
		}
		if r.Quality.Silhouette != nil {
			silhouette[l] = *r.Quality.Silhouette
		}
		if r.Quality.DaviesBouldin != nil && *r.Quality.DaviesBouldin > 0 {
			invDaviesBouldin[l] = 1.0 / *r.Quality.DaviesBouldin
		}
		if r.Quality.CalinskiHarabasz != nil {
			calinski[l] = *r.Quality.CalinskiHarabasz
		}
	}

	normCophenetic := minMaxNormalize(linkages, cophenetic)
	normSilhouette := minMaxNormalize(linkages, silhouette)
	normDaviesBouldin := minMaxNormalize(linkages, invDaviesBouldin)
	normCalinski := minMaxNormalize(linkages, calinski)

	scores := make(map[Linkage]float64, len(linkages))
	for _, l := range linkages {
		scores[l] = weightCophenetic*normCophenetic[l] +
			weightSilhouette*normSilhouette[l] +
			weightDaviesBouldin*normDaviesBouldin[l] +
			weightCalinski*normCalinski[l]
	}
	return scores
}

// minMaxNormalize rescales values to [0,1] across the candidate set. When
// every candidate ties (including all-absent, all zero), each gets 0.5 so
// the signal neither helps nor hurts the comparison.
func minMaxNormalize(linkages []Linkage, values map[Linkage]float64) map[Linkage]float64 {
	min, max := math.MaxFloat64, -math.MaxFloat64
	for _, l := range linkages {
		v := values[l]
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make(map[Linkage]float64, len(linkages))
	span := max - min
	for _, l := range linkages {
		if span <= 0 {
			out[l] = 0.5
			continue
		}
		out[l] = (values[l] - min) / span
	}
	return out
}
