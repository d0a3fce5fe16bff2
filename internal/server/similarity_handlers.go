package server

import (
	"net/http"
	"sort"

	"bibliometric-api/internal/apierror"
	"bibliometric-api/internal/similarity"
)

// compareRequest is the decoded body of POST /similarity/compare.
type compareRequest struct {
	Text1     string `json:"text1"`
	Text2     string `json:"text2"`
	Algorithm string `json:"algorithm"`
}

// handleSimilarityCompare handles POST /api/v1/similarity/compare.
func (s *Server) handleSimilarityCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.Algorithm == "" {
		s.respondError(w, apierror.Validation("algorithm is required", nil))
		return
	}

	diag, err := similarity.Compare(s.similarity, req.Algorithm, req.Text1, req.Text2)
	if err != nil {
		s.respondError(w, apierror.NotFound(err.Error()))
		return
	}
	s.respondJSON(w, http.StatusOK, diag)
}

// compareAllRequest is the decoded body of POST /similarity/compare-all.
type compareAllRequest struct {
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
}

// handleSimilarityCompareAll handles POST /api/v1/similarity/compare-all.
func (s *Server) handleSimilarityCompareAll(w http.ResponseWriter, r *http.Request) {
	var req compareAllRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	result := similarity.CompareAll(s.similarity, req.Text1, req.Text2, nil)
	s.respondJSON(w, http.StatusOK, result)
}

// handleSimilarityAnalyze handles POST /api/v1/similarity/analyze: the
// same step-by-step diagnostic as /compare, kept as a distinct endpoint
// since callers may want the full breakdown without the composite
// machinery of /compare-all.
func (s *Server) handleSimilarityAnalyze(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.Algorithm == "" {
		s.respondError(w, apierror.Validation("algorithm is required", nil))
		return
	}

	diag, err := similarity.Compare(s.similarity, req.Algorithm, req.Text1, req.Text2)
	if err != nil {
		s.respondError(w, apierror.NotFound(err.Error()))
		return
	}
	s.respondJSON(w, http.StatusOK, diag)
}

// batchRequest is the decoded body of POST /similarity/batch.
type batchRequest struct {
	Pairs [][2]string `json:"pairs"`
	Algorithm string  `json:"algorithm"`
}

// handleSimilarityBatch handles POST /api/v1/similarity/batch.
func (s *Server) handleSimilarityBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.Algorithm == "" {
		s.respondError(w, apierror.Validation("algorithm is required", nil))
		return
	}
	if _, ok := s.similarity.Get(req.Algorithm); !ok {
		s.respondError(w, apierror.NotFound("unknown similarity algorithm: "+req.Algorithm))
		return
	}

	results := make([]similarity.Diagnostic, 0, len(req.Pairs))
	for _, pair := range req.Pairs {
		diag, _ := similarity.Compare(s.similarity, req.Algorithm, pair[0], pair[1])
		results = append(results, diag)
	}
	s.respondJSON(w, http.StatusOK, results)
}

// algorithmDescriptor is one entry of GET /similarity/algorithms.
type algorithmDescriptor struct {
	Name string `json:"name"`
}

// handleSimilarityAlgorithms handles GET /api/v1/similarity/algorithms.
func (s *Server) handleSimilarityAlgorithms(w http.ResponseWriter, r *http.Request) {
	names := s.similarity.Names()
	sort.Strings(names)
	out := make([]algorithmDescriptor, 0, len(names))
	for _, n := range names {
		out = append(out, algorithmDescriptor{Name: n})
	}
	s.respondJSON(w, http.StatusOK, out)
}
