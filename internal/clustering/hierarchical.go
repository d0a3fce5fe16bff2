// Package clustering implements hierarchical agglomerative clustering over
// TF-IDF vectorized documents: build a cosine distance matrix, merge by a
// configurable linkage criterion into a SciPy-style linkage matrix, cut
// the resulting tree into flat clusters, and score the result.
package clustering

import (
	"fmt"
	"math"
	"sort"

	"bibliometric-api/internal/core"
	"bibliometric-api/internal/preprocess"
)

// Linkage selects how inter-cluster distance is computed during
// agglomeration.
type Linkage string

const (
	LinkageWard     Linkage = "ward"
	LinkageAverage  Linkage = "average"
	LinkageComplete Linkage = "complete"
)

// Params configures a hierarchical clustering run.
type Params struct {
	Linkage           Linkage
	NumClusters       int // cut target; 0 means "use DistanceThreshold instead"
	DistanceThreshold float64
	AutoK             bool // select NumClusters by maximizing silhouette over [2, min(n,20)]
	Preprocess        preprocess.Config

	// MaxFeatures caps the vectorizer's vocabulary to the top-scoring
	// terms by document frequency; 0 falls back to DefaultMaxFeatures.
	MaxFeatures int
	// MinDF drops terms occurring in fewer than MinDF documents (0 or 1
	// disables the floor).
	MinDF int
	// MaxDF drops terms occurring in more than MaxDF documents; 0
	// disables the ceiling.
	MaxDF int
}

// DefaultMaxFeatures is the vectorizer's vocabulary cap when Params
// leaves MaxFeatures unset.
const DefaultMaxFeatures = 1000

// DefaultParams mirrors the default text preprocessing pipeline with
// Ward linkage and a 4-cluster cut.
func DefaultParams() Params {
	return Params{
		Linkage:     LinkageWard,
		NumClusters: 4,
		Preprocess:  preprocess.DefaultConfig(),
		MaxFeatures: DefaultMaxFeatures,
	}
}

// clusterNode is an internal agglomeration node; leaves have ID < n and
// Size 1, internal nodes have ID >= n (original document count) matching
// the SciPy linkage-matrix indexing convention.
type clusterNode struct {
	id       int
	members  []int // original document indices belonging to this node
	centroid map[string]float64
}

// Run vectorizes docs with TF-IDF, computes the cosine distance matrix,
// agglomerates under the configured linkage, cuts the tree, scores the
// result and returns the full clustering result.
func Run(docs []string, params Params) (*core.ClusteringResult, error) {
	n := len(docs)
	if n < 2 {
		return nil, fmt.Errorf("hierarchical clustering requires at least 2 documents, got %d", n)
	}

	vectors := tfidfVectorize(docs, params)
	distances := make([][]float64, n)
	for i := range distances {
		distances[i] = make([]float64, n)
		for j := range distances[i] {
			if i == j {
				continue
			}
			distances[i][j] = cosineDistanceSparse(vectors[i], vectors[j])
		}
	}

	rows := agglomerate(vectors, distances, params)
	embeddings := denseFromSparse(vectors)
	labels := selectLabels(rows, n, params, distances)

	quality := computeQuality(embeddings, distances, labels)
	copheneticCorr, monotonicityWarning := copheneticAnalysis(distances, rows, n)

	result := &core.ClusteringResult{
		Method:      fmt.Sprintf("hierarchical_%s_tfidf_cosine", params.Linkage),
		Linkage:     rows,
		Labels:      oneBasedLabels(labels),
		NumClusters: countDistinct(labels),
		Quality:     quality,
		Dendrogram:  dendrogramFromRows(rows),
	}
	if copheneticCorr != nil {
		result.CopheneticCorrelation = copheneticCorr
	}
	result.MonotonicityWarning = monotonicityWarning
	return result, nil
}

// agglomerate runs the generic agglomerative merge loop: at each of n-1
// steps, find the closest pair of live clusters under the configured
// linkage distance, merge them into a new node, and record a
// core.LinkageRow. Inter-cluster distances are recomputed lazily via the
// linkage function rather than precomputed into an (2n-1)x(2n-1) matrix,
// trading a little recomputation for simplicity.
func agglomerate(vectors []map[string]float64, baseDistances [][]float64, params Params) []core.LinkageRow {
	n := len(vectors)
	nodes := make(map[int]*clusterNode, n)
	for i := 0; i < n; i++ {
		nodes[i] = &clusterNode{id: i, members: []int{i}, centroid: vectors[i]}
	}

	nextID := n
	rows := make([]core.LinkageRow, 0, n-1)
	live := make([]int, n)
	for i := range live {
		live[i] = i
	}

	for len(live) > 1 {
		bestA, bestB := -1, -1
		bestDist := math.MaxFloat64

		for a := 0; a < len(live); a++ {
			for b := a + 1; b < len(live); b++ {
				d := linkageDistance(nodes[live[a]], nodes[live[b]], baseDistances, params.Linkage)
				if d < bestDist {
					bestDist = d
					bestA, bestB = a, b
				}
			}
		}

		idI, idJ := live[bestA], live[bestB]
		merged := &clusterNode{
			id:      nextID,
			members: append(append([]int{}, nodes[idI].members...), nodes[idJ].members...),
		}
		merged.centroid = averageSparse(nodes[idI].centroid, len(nodes[idI].members), nodes[idJ].centroid, len(nodes[idJ].members))

		sortedI, sortedJ := idI, idJ
		if sortedI > sortedJ {
			sortedI, sortedJ = sortedJ, sortedI
		}
		rows = append(rows, core.LinkageRow{
			I:        sortedI,
			J:        sortedJ,
			Distance: bestDist,
			Size:     len(merged.members),
		})

		nodes[nextID] = merged
		delete(nodes, idI)
		delete(nodes, idJ)

		newLive := make([]int, 0, len(live)-1)
		for _, id := range live {
			if id != idI && id != idJ {
				newLive = append(newLive, id)
			}
		}
		newLive = append(newLive, nextID)
		live = newLive
		nextID++
	}

	return rows
}

// selectLabels cuts the tree into flat labels. When params.AutoK is set, it
// tries every cluster count k in [2, min(n,20)] and keeps the cut that
// maximizes the average silhouette score,  step 4; otherwise
// it defers to cutTree's NumClusters/DistanceThreshold behavior.
func selectLabels(rows []core.LinkageRow, n int, params Params, distances [][]float64) []int {
	if !params.AutoK {
		return cutTree(rows, n, params)
	}

	maxK := n
	if maxK > 20 {
		maxK = 20
	}
	if maxK < 2 {
		return cutTree(rows, n, params)
	}

	var bestLabels []int
	bestScore := -2.0
	for k := 2; k <= maxK; k++ {
		candidate := params
		candidate.AutoK = false
		candidate.NumClusters = k
		candidate.DistanceThreshold = 0
		labels := cutTree(rows, n, candidate)
		if countDistinct(labels) != k {
			continue
		}
		score := AverageSilhouetteScore(labels, distances)
		if bestLabels == nil || score > bestScore {
			bestScore = score
			bestLabels = labels
		}
	}
	if bestLabels == nil {
		return cutTree(rows, n, Params{})
	}
	return bestLabels
}

// linkageDistance computes the distance between two (possibly merged)
// clusters under the configured criterion. Ward uses the squared
// centroid distance scaled by na*nb/(na+nb), which is the increase in
// within-cluster sum of squares the merge would cause; average/complete
// operate over the original pairwise distance matrix.
func linkageDistance(a, b *clusterNode, base [][]float64, linkage Linkage) float64 {
	switch linkage {
	case LinkageAverage:
		var sum float64
		for _, i := range a.members {
			for _, j := range b.members {
				sum += base[i][j]
			}
		}
		return sum / float64(len(a.members)*len(b.members))
	case LinkageComplete:
		maxDist := 0.0
		for _, i := range a.members {
			for _, j := range b.members {
				if base[i][j] > maxDist {
					maxDist = base[i][j]
				}
			}
		}
		return maxDist
	default: // Ward
		centroidDist := euclideanSparse(a.centroid, b.centroid)
		na, nb := float64(len(a.members)), float64(len(b.members))
		return (na * nb / (na + nb)) * centroidDist * centroidDist
	}
}

// cutTree flattens the linkage matrix into flat cluster labels, either by
// a target cluster count (stop merging NumClusters-1 steps before the
// root) or by a distance threshold (stop merging once the next merge
// distance exceeds it).
func cutTree(rows []core.LinkageRow, n int, params Params) []int {
	parent := make([]int, 2*n-1)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			x = parent[x]
		}
		return x
	}

	stopAt := len(rows)
	if params.NumClusters > 0 && params.NumClusters < n {
		stopAt = n - params.NumClusters
	} else if params.DistanceThreshold > 0 {
		stopAt = 0
		for i, row := range rows {
			if row.Distance > params.DistanceThreshold {
				break
			}
			stopAt = i + 1
		}
	}

	for step := 0; step < stopAt && step < len(rows); step++ {
		row := rows[step]
		ri, rj := find(row.I), find(row.J)
		mergedID := n + step
		parent[ri] = mergedID
		parent[rj] = mergedID
	}

	rootOf := make(map[int]int)
	labels := make([]int, n)
	nextLabel := 0
	for i := 0; i < n; i++ {
		root := find(i)
		lbl, ok := rootOf[root]
		if !ok {
			lbl = nextLabel
			rootOf[root] = lbl
			nextLabel++
		}
		labels[i] = lbl
	}
	return labels
}

// dendrogramFromRows re-expresses each merge step as a core.DendrogramNode,
// reusing the same i/j/distance/size numbering as the linkage matrix.
func dendrogramFromRows(rows []core.LinkageRow) []core.DendrogramNode {
	n := len(rows) + 1
	out := make([]core.DendrogramNode, len(rows))
	for step, row := range rows {
		out[step] = core.DendrogramNode{
			ID:       n + step,
			Left:     row.I,
			Right:    row.J,
			Distance: row.Distance,
			Size:     row.Size,
		}
	}
	return out
}

// oneBasedLabels shifts cutTree's internal 0-based labels into the [1, k]
// range the API contract expects, leaving the 0-based originals for the
// quality metrics, which use label values as direct slice indices.
func oneBasedLabels(labels []int) []int {
	out := make([]int, len(labels))
	for i, l := range labels {
		out[i] = l + 1
	}
	return out
}

func countDistinct(labels []int) int {
	set := make(map[int]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return len(set)
}

// tfidfVectorize builds sparse TF-IDF vectors for docs, applying the
// vectorizer's vocabulary bounds: terms outside [MinDF, MaxDF] document
// frequency are dropped, then the vocabulary is capped to the
// MaxFeatures terms with the highest document frequency.
func tfidfVectorize(docs []string, params Params) []map[string]float64 {
	cfg := params.Preprocess
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, d := range docs {
		toks := preprocess.Preprocess(d, cfg)
		tokenized[i] = toks
		seen := make(map[string]struct{})
		for _, tok := range toks {
			if _, dup := seen[tok]; !dup {
				df[tok]++
				seen[tok] = struct{}{}
			}
		}
	}

	vocab := vocabularyWithin(df, params)

	n := float64(len(docs))
	idf := make(map[string]float64, len(vocab))
	for term := range vocab {
		idf[term] = math.Log(n/float64(df[term])) + 1
	}

	vectors := make([]map[string]float64, len(docs))
	for i, toks := range tokenized {
		tf := make(map[string]int)
		for _, tok := range toks {
			if _, ok := vocab[tok]; ok {
				tf[tok]++
			}
		}
		vec := make(map[string]float64, len(tf))
		for term, c := range tf {
			vec[term] = float64(c) * idf[term]
		}
		vectors[i] = vec
	}
	return vectors
}

// vocabularyWithin applies MinDF/MaxDF filtering and the MaxFeatures cap
// (keeping the highest document-frequency terms, ties broken
// alphabetically for determinism) to the raw document-frequency table.
func vocabularyWithin(df map[string]int, params Params) map[string]struct{} {
	minDF := params.MinDF
	if minDF < 1 {
		minDF = 1
	}
	maxDF := params.MaxDF

	terms := make([]string, 0, len(df))
	for term, count := range df {
		if count < minDF {
			continue
		}
		if maxDF > 0 && count > maxDF {
			continue
		}
		terms = append(terms, term)
	}

	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})

	maxFeatures := params.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	vocab := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		vocab[t] = struct{}{}
	}
	return vocab
}

func cosineDistanceSparse(v1, v2 map[string]float64) float64 {
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
		return 1.0
	}
	sim := dot / (math.Sqrt(mag1) * math.Sqrt(mag2))
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}
	return 1 - sim
}

func euclideanSparse(v1, v2 map[string]float64) float64 {
	seen := make(map[string]struct{}, len(v1)+len(v2))
	var sum float64
	for term, w1 := range v1 {
		seen[term] = struct{}{}
		d := w1 - v2[term]
		sum += d * d
	}
	for term, w2 := range v2 {
		if _, ok := seen[term]; ok {
			continue
		}
		sum += w2 * w2
	}
	return math.Sqrt(sum)
}

func averageSparse(v1 map[string]float64, n1 int, v2 map[string]float64, n2 int) map[string]float64 {
	out := make(map[string]float64, len(v1)+len(v2))
	total := float64(n1 + n2)
	for term, w := range v1 {
		out[term] += w * float64(n1) / total
	}
	for term, w := range v2 {
		out[term] += w * float64(n2) / total
	}
	return out
}

func denseFromSparse(vectors []map[string]float64) [][]float64 {
	vocabSet := make(map[string]struct{})
	for _, v := range vectors {
		for term := range v {
			vocabSet[term] = struct{}{}
		}
	}
	vocab := make([]string, 0, len(vocabSet))
	for term := range vocabSet {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	dense := make([][]float64, len(vectors))
	for i, v := range vectors {
		row := make([]float64, len(vocab))
		for j, term := range vocab {
			row[j] = v[term]
		}
		dense[i] = row
	}
	return dense
}
