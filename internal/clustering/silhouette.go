package clustering

import (
	"math"
)

// SilhouetteScore calculates the silhouette score for a single data point
// Returns a score between -1 and 1:
//   -1: Point likely in wrong cluster
//    0: Point on the border between clusters
//   +1: Point well matched to its cluster
func SilhouetteScore(
	pointIdx int,
	clusterAssignments []int,
	distances [][]float64,
) float64 {
	n := len(clusterAssignments)
	if n == 0 || pointIdx >= n {
		return 0.0
	}

	currentCluster := clusterAssignments[pointIdx]

	// Calculate a(i): mean distance to other points in same cluster
	a := meanIntraClusterDistance(pointIdx, currentCluster, clusterAssignments, distances)

	// Calculate b(i): min mean distance to points in other clusters
	b := minInterClusterDistance(pointIdx, currentCluster, clusterAssignments, distances)

	// Silhouette score
	if a < b {
		return 1.0 - (a / b)
	} else if a > b {
		return (b / a) - 1.0
	}
	return 0.0 // a == b
}

// meanIntraClusterDistance calculates mean distance to other points in same cluster
func meanIntraClusterDistance(
	pointIdx int,
	clusterLabel int,
	clusterAssignments []int,
	distances [][]float64,
) float64 {
	sumDistance := 0.0
	count := 0

	for i, label := range clusterAssignments {
		if i == pointIdx {
			continue // Skip self
		}
		if label == clusterLabel {
			sumDistance += distances[pointIdx][i]
			count++
		}
	}

	if count == 0 {
		return 0.0 // Single point in cluster
	}

	return sumDistance / float64(count)
}

// minInterClusterDistance finds minimum mean distance to points in other clusters
func minInterClusterDistance(
	pointIdx int,
	currentCluster int,
	clusterAssignments []int,
	distances [][]float64,
) float64 {
	// Find all unique cluster labels except current
	clusterLabels := make(map[int]bool)
	for _, label := range clusterAssignments {
		if label != currentCluster {
			clusterLabels[label] = true
		}
	}

	if len(clusterLabels) == 0 {
		return 1.0 // No other clusters
	}

	minDistance := math.MaxFloat64

	// For each other cluster, calculate mean distance
	for otherCluster := range clusterLabels {
		sumDistance := 0.0
		count := 0

		for i, label := range clusterAssignments {
			if label == otherCluster {
				sumDistance += distances[pointIdx][i]
				count++
			}
		}

		if count > 0 {
			meanDistance := sumDistance / float64(count)
			if meanDistance < minDistance {
				minDistance = meanDistance
			}
		}
	}

	if minDistance == math.MaxFloat64 {
		return 1.0
	}

	return minDistance
}

// AverageSilhouetteScore calculates the mean silhouette score across all points
func AverageSilhouetteScore(
	clusterAssignments []int,
	distances [][]float64,
) float64 {
	n := len(clusterAssignments)
	if n == 0 {
		return 0.0
	}

	totalScore := 0.0
	for i := 0; i < n; i++ {
		score := SilhouetteScore(i, clusterAssignments, distances)
		totalScore += score
	}

	return totalScore / float64(n)
}

// EuclideanDistance calculates Euclidean distance between two vectors
func EuclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.MaxFloat64
	}

	sumSquares := 0.0
	for i := 0; i < len(a); i++ {
		diff := a[i] - b[i]
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares)
}
