package clustering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleDocs = []string{
	"generative adversarial networks for image synthesis",
	"generative adversarial network training stability",
	"transformer architectures for large language models",
	"attention mechanisms in large language models",
	"reinforcement learning from human feedback",
	"policy optimization for reinforcement learning agents",
}

func TestRun_WardLinkageProducesValidLinkageMatrix(t *testing.T) {
	result, err := Run(sampleDocs, DefaultParams())
	require.NoError(t, err)

	assert.Len(t, result.Linkage, len(sampleDocs)-1)
	assert.Len(t, result.Labels, len(sampleDocs))
	assert.Equal(t, result.NumClusters, countDistinct(result.Labels))

	for i, row := range result.Linkage {
		assert.GreaterOrEqual(t, row.Distance, 0.0)
		assert.Less(t, row.J, len(sampleDocs)+i) // children precede the node id n+i this row creates
	}
}

func TestRun_TooFewDocumentsErrors(t *testing.T) {
	_, err := Run([]string{"only one document"}, DefaultParams())
	assert.Error(t, err)
}

func TestRun_DistanceThresholdCut(t *testing.T) {
	params := DefaultParams()
	params.NumClusters = 0
	params.DistanceThreshold = 0.5
	result, err := Run(sampleDocs, params)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.NumClusters, 1)
	assert.LessOrEqual(t, result.NumClusters, len(sampleDocs))
}

func TestRun_QualityMetricsPresentForMultiCluster(t *testing.T) {
	params := DefaultParams()
	params.NumClusters = 3
	result, err := Run(sampleDocs, params)
	require.NoError(t, err)
	require.NotNil(t, result.Quality.Silhouette)
	assert.GreaterOrEqual(t, *result.Quality.Silhouette, -1.0)
	assert.LessOrEqual(t, *result.Quality.Silhouette, 1.0)
}

func TestCompareMethods_RecommendsOneOfThreeLinkages(t *testing.T) {
	cmp, err := CompareMethods(sampleDocs, DefaultParams())
	require.NoError(t, err)
	assert.Len(t, cmp.Results, 3)
	assert.Contains(t, []Linkage{LinkageWard, LinkageAverage, LinkageComplete}, cmp.Recommended)
	assert.NotEmpty(t, cmp.Reason)
}

func TestCopheneticAnalysis_WithinValidRange(t *testing.T) {
	result, err := Run(sampleDocs, DefaultParams())
	require.NoError(t, err)
	if result.CopheneticCorrelation != nil {
		assert.GreaterOrEqual(t, *result.CopheneticCorrelation, -1.0)
		assert.LessOrEqual(t, *result.CopheneticCorrelation, 1.0)
	}
}
