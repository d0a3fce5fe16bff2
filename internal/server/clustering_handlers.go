package server

import (
	"net/http"

	"bibliometric-api/internal/apierror"
	"bibliometric-api/internal/clustering"
)

// hierarchicalRequest is the decoded body of POST /clustering/hierarchical.
type hierarchicalRequest struct {
	Abstracts         []string `json:"abstracts"`
	Method            string   `json:"method"`
	NumClusters       int      `json:"num_clusters,omitempty"`
	DistanceThreshold float64  `json:"distance_threshold,omitempty"`
	AutoK             bool     `json:"auto,omitempty"`
	MaxFeatures       int      `json:"max_features,omitempty"`
	MinDF             int      `json:"min_df,omitempty"`
	MaxDF             int      `json:"max_df,omitempty"`
}

func clusteringParamsFromRequest(req hierarchicalRequest) clustering.Params {
	params := clustering.DefaultParams()
	if req.Method != "" {
		params.Linkage = clustering.Linkage(req.Method)
	}
	params.NumClusters = req.NumClusters
	params.DistanceThreshold = req.DistanceThreshold
	params.AutoK = req.AutoK
	if req.MaxFeatures > 0 {
		params.MaxFeatures = req.MaxFeatures
	}
	params.MinDF = req.MinDF
	params.MaxDF = req.MaxDF
	return params
}

// handleClusteringHierarchical handles POST /api/v1/clustering/hierarchical.
func (s *Server) handleClusteringHierarchical(w http.ResponseWriter, r *http.Request) {
	var req hierarchicalRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if len(req.Abstracts) < 2 {
		s.respondError(w, apierror.Validation("clustering requires at least 2 abstracts", nil))
		return
	}

	result, err := clustering.Run(req.Abstracts, clusteringParamsFromRequest(req))
	if err != nil {
		s.respondError(w, apierror.Computation(err.Error()))
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// compareMethodsRequest is the decoded body of POST /clustering/compare-methods.
type compareMethodsRequest struct {
	Abstracts   []string `json:"abstracts"`
	NumClusters int      `json:"num_clusters,omitempty"`
}

// handleClusteringCompareMethods handles POST /api/v1/clustering/compare-methods.
func (s *Server) handleClusteringCompareMethods(w http.ResponseWriter, r *http.Request) {
	var req compareMethodsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if len(req.Abstracts) < 2 {
		s.respondError(w, apierror.Validation("clustering requires at least 2 abstracts", nil))
		return
	}

	base := clustering.DefaultParams()
	if req.NumClusters > 0 {
		base.NumClusters = req.NumClusters
	}

	result, err := clustering.CompareMethods(req.Abstracts, base)
	if err != nil {
		s.respondError(w, apierror.Computation(err.Error()))
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// methodDescriptor documents one linkage criterion's merge formula for
// GET /clustering/methods.
type methodDescriptor struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
}

// handleClusteringMethods handles GET /api/v1/clustering/methods.
func (s *Server) handleClusteringMethods(w http.ResponseWriter, r *http.Request) {
	descriptors := []methodDescriptor{
		{Name: string(clustering.LinkageWard), Formula: "squared centroid distance scaled by (|A|*|B|)/(|A|+|B|), Ward's increase-in-variance criterion"},
		{Name: string(clustering.LinkageAverage), Formula: "mean pairwise distance between members of A and members of B"},
		{Name: string(clustering.LinkageComplete), Formula: "maximum pairwise distance between members of A and members of B"},
	}
	s.respondJSON(w, http.StatusOK, descriptors)
}
