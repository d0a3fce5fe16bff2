package clustering

import (
	"math"

	"bibliometric-api/internal/core"
	"gonum.org/v1/gonum/stat"
)

// copheneticAnalysis computes the cophenetic correlation coefficient: the
// Pearson correlation between the original pairwise distances and the
// cophenetic distances (the linkage height at which each pair first ends
// up in the same cluster). It also flags non-monotonic merge heights,
// which indicate an inversion in the dendrogram (possible with
// centroid-style linkages, not expected with average/complete but
// checked regardless since Ward here uses a centroid approximation).
func copheneticAnalysis(distances [][]float64, rows []core.LinkageRow, n int) (*float64, string) {
	if n < 3 || len(rows) == 0 {
		return nil, ""
	}

	cophenetic := copheneticDistances(rows, n)

	var original, computed []float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			original = append(original, distances[i][j])
			computed = append(computed, cophenetic[i][j])
		}
	}

	corr := stat.Correlation(original, computed, nil)
	if math.IsNaN(corr) {
		return nil, "cophenetic correlation undefined: zero variance in distances"
	}

	warning := ""
	for i := 1; i < len(rows); i++ {
		if rows[i].Distance < rows[i-1].Distance-1e-9 {
			warning = "dendrogram is non-monotonic: a later merge occurred at a smaller distance than an earlier one"
			break
		}
	}

	return &corr, warning
}

// copheneticDistances builds the full n x n cophenetic distance matrix by
// replaying the merge sequence: every pair of leaves gets the distance of
// the merge step that first joins their two clusters.
func copheneticDistances(rows []core.LinkageRow, n int) [][]float64 {
	parent := make([]int, 2*n-1)
	for i := range parent {
		parent[i] = i
	}
	members := make([][]int, 2*n-1)
	for i := 0; i < n; i++ {
		members[i] = []int{i}
	}

	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			x = parent[x]
		}
		return x
	}

	result := make([][]float64, n)
	for i := range result {
		result[i] = make([]float64, n)
	}

	for step, row := range rows {
		ri, rj := find(row.I), find(row.J)
		for _, a := range members[ri] {
			for _, b := range members[rj] {
				result[a][b] = row.Distance
				result[b][a] = row.Distance
			}
		}
		mergedID := n + step
		parent[ri] = mergedID
		parent[rj] = mergedID
		members[mergedID] = append(append([]int{}, members[ri]...), members[rj]...)
	}

	return result
}
