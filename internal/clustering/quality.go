package clustering

import (
	"math"

	"bibliometric-api/internal/core"
)

// computeQuality bundles the three cluster-validity metrics into one
// QualityMetrics value. Each metric is nil when undefined for the
// current cut (fewer than 2 clusters, or a cluster count equal to the
// number of points).
func computeQuality(embeddings [][]float64, distances [][]float64, labels []int) core.QualityMetrics {
	k := countDistinct(labels)
	n := len(labels)

	var metrics core.QualityMetrics
	if k < 2 || k >= n {
		return metrics
	}

	silhouette := AverageSilhouetteScore(labels, distances)
	metrics.Silhouette = &silhouette

	if db := daviesBouldinIndex(embeddings, labels, k); db != nil {
		metrics.DaviesBouldin = db
	}
	if ch := calinskiHarabaszIndex(embeddings, labels, k); ch != nil {
		metrics.CalinskiHarabasz = ch
	}
	return metrics
}

// daviesBouldinIndex computes the average of, for each cluster, the
// worst-case ratio of within-cluster scatter to between-centroid
// distance against any other cluster. Lower is better; nil when any
// cluster's centroid pairs degenerate (zero distance between distinct
// clusters).
func daviesBouldinIndex(embeddings [][]float64, labels []int, k int) *float64 {
	centroids, scatter := clusterCentroidsAndScatter(embeddings, labels, k)

	var total float64
	for i := 0; i < k; i++ {
		worst := 0.0
		for j := 0; j < k; j++ {
			if i == j {
				continue
			}
			centroidDist := EuclideanDistance(centroids[i], centroids[j])
			if centroidDist == 0 {
				return nil
			}
			ratio := (scatter[i] + scatter[j]) / centroidDist
			if ratio > worst {
				worst = ratio
			}
		}
		total += worst
	}
	db := total / float64(k)
	return &db
}

// calinskiHarabaszIndex is the ratio of between-cluster to within-cluster
// dispersion, scaled by degrees of freedom. Higher is better.
func calinskiHarabaszIndex(embeddings [][]float64, labels []int, k int) *float64 {
	n := len(embeddings)
	if n <= k {
		return nil
	}
	dim := 0
	if n > 0 {
		dim = len(embeddings[0])
	}

	overallCentroid := make([]float64, dim)
	for _, e := range embeddings {
		for d := 0; d < dim; d++ {
			overallCentroid[d] += e[d]
		}
	}
	for d := range overallCentroid {
		overallCentroid[d] /= float64(n)
	}

	centroids, _ := clusterCentroidsAndScatter(embeddings, labels, k)
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}

	var betweenSS, withinSS float64
	for c := 0; c < k; c++ {
		d := EuclideanDistance(centroids[c], overallCentroid)
		betweenSS += float64(counts[c]) * d * d
	}
	for i, e := range embeddings {
		d := EuclideanDistance(e, centroids[labels[i]])
		withinSS += d * d
	}

	if withinSS == 0 {
		return nil
	}

	score := (betweenSS / withinSS) * (float64(n-k) / float64(k-1))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil
	}
	return &score
}

// clusterCentroidsAndScatter returns, for each of k clusters, its
// centroid (mean embedding) and its scatter (mean distance of members
// to that centroid).
func clusterCentroidsAndScatter(embeddings [][]float64, labels []int, k int) ([][]float64, []float64) {
	dim := 0
	if len(embeddings) > 0 {
		dim = len(embeddings[0])
	}

	centroids := make([][]float64, k)
	counts := make([]int, k)
	for c := range centroids {
		centroids[c] = make([]float64, dim)
	}
	for i, e := range embeddings {
		l := labels[i]
		counts[l]++
		for d := 0; d < dim; d++ {
			centroids[l][d] += e[d]
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for d := range centroids[c] {
			centroids[c][d] /= float64(counts[c])
		}
	}

	scatter := make([]float64, k)
	for i, e := range embeddings {
		l := labels[i]
		scatter[l] += EuclideanDistance(e, centroids[l])
	}
	for c := range scatter {
		if counts[c] > 0 {
			scatter[c] /= float64(counts[c])
		}
	}

	return centroids, scatter
}
