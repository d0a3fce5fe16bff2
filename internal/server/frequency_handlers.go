package server

import (
	"net/http"

	"bibliometric-api/internal/apierror"
	"bibliometric-api/internal/frequency"
)

// analyzeConceptsRequest is the decoded body of POST /frequency/analyze-concepts.
type analyzeConceptsRequest struct {
	Abstracts []string             `json:"abstracts"`
	Concepts  []frequency.Concept  `json:"concepts,omitempty"`
	Window    int                  `json:"context_window,omitempty"`
}

func (s *Server) resolveConcepts(requested []frequency.Concept) []frequency.Concept {
	if len(requested) > 0 {
		return requested
	}
	return s.concepts
}

// handleFrequencyAnalyzeConcepts handles POST /api/v1/frequency/analyze-concepts.
func (s *Server) handleFrequencyAnalyzeConcepts(w http.ResponseWriter, r *http.Request) {
	var req analyzeConceptsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if len(req.Abstracts) == 0 {
		s.respondError(w, apierror.Validation("abstracts must be non-empty", nil))
		return
	}

	results := frequency.AnalyzeConcepts(req.Abstracts, s.resolveConcepts(req.Concepts), req.Window)
	byName := make(map[string]interface{}, len(results))
	for _, res := range results {
		byName[res.Concept] = res
	}
	s.respondJSON(w, http.StatusOK, byName)
}

// extractKeywordsRequest is the decoded body of POST /frequency/extract-keywords.
type extractKeywordsRequest struct {
	Abstracts   []string `json:"abstracts"`
	Method      string   `json:"method"`
	MaxKeywords int      `json:"max_keywords"`
	NgramRange  [2]int   `json:"ngram_range,omitempty"`
}

func keywordParamsFromRequest(method string, maxKeywords int, ngramRange [2]int) frequency.KeywordParams {
	params := frequency.DefaultKeywordParams()
	if method != "" {
		params.Method = frequency.KeywordMethod(method)
	}
	if maxKeywords > 0 {
		params.MaxKeyword = maxKeywords
	}
	if ngramRange[1] > 0 {
		params.NgramRange = ngramRange
	}
	return params
}

// handleFrequencyExtractKeywords handles POST /api/v1/frequency/extract-keywords.
func (s *Server) handleFrequencyExtractKeywords(w http.ResponseWriter, r *http.Request) {
	var req extractKeywordsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if len(req.Abstracts) == 0 {
		s.respondError(w, apierror.Validation("abstracts must be non-empty", nil))
		return
	}

	params := keywordParamsFromRequest(req.Method, req.MaxKeywords, req.NgramRange)
	keywords := frequency.ExtractKeywords(req.Abstracts, params)
	s.respondJSON(w, http.StatusOK, keywords)
}

// precisionAnalysisRequest is the decoded body of POST /frequency/precision-analysis.
type precisionAnalysisRequest struct {
	Abstracts         []string `json:"abstracts"`
	Method            string   `json:"method"`
	ReferenceConcepts []string `json:"reference_concepts"`
}

// handleFrequencyPrecisionAnalysis handles POST /api/v1/frequency/precision-analysis.
func (s *Server) handleFrequencyPrecisionAnalysis(w http.ResponseWriter, r *http.Request) {
	var req precisionAnalysisRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if len(req.Abstracts) == 0 || len(req.ReferenceConcepts) == 0 {
		s.respondError(w, apierror.Validation("abstracts and reference_concepts must be non-empty", nil))
		return
	}

	params := keywordParamsFromRequest(req.Method, 0, [2]int{})
	keywords := frequency.ExtractKeywords(req.Abstracts, params)
	result := frequency.Evaluate(keywords, req.ReferenceConcepts)
	s.respondJSON(w, http.StatusOK, result)
}

// fullReportResponse is the union response of POST /frequency/full-report.
type fullReportResponse struct {
	Concepts   map[string]interface{}       `json:"concepts"`
	Keywords   []frequency.Keyword          `json:"keywords"`
	Evaluation *frequency.EvaluationResult  `json:"evaluation,omitempty"`
}

// handleFrequencyFullReport handles POST /api/v1/frequency/full-report: the
// union of concept analysis, keyword extraction, and (when reference
// concepts are supplied) precision/recall evaluation.
func (s *Server) handleFrequencyFullReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Abstracts         []string             `json:"abstracts"`
		Concepts          []frequency.Concept  `json:"concepts,omitempty"`
		Method            string               `json:"method"`
		MaxKeywords       int                  `json:"max_keywords"`
		NgramRange        [2]int               `json:"ngram_range,omitempty"`
		ReferenceConcepts []string             `json:"reference_concepts,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if len(req.Abstracts) == 0 {
		s.respondError(w, apierror.Validation("abstracts must be non-empty", nil))
		return
	}

	conceptResults := frequency.AnalyzeConcepts(req.Abstracts, s.resolveConcepts(req.Concepts), 0)
	byName := make(map[string]interface{}, len(conceptResults))
	for _, res := range conceptResults {
		byName[res.Concept] = res
	}

	params := keywordParamsFromRequest(req.Method, req.MaxKeywords, req.NgramRange)
	keywords := frequency.ExtractKeywords(req.Abstracts, params)

	report := fullReportResponse{Concepts: byName, Keywords: keywords}
	if len(req.ReferenceConcepts) > 0 {
		eval := frequency.Evaluate(keywords, req.ReferenceConcepts)
		report.Evaluation = &eval
	}
	s.respondJSON(w, http.StatusOK, report)
}

// handleFrequencyPredefinedConcepts handles GET /api/v1/frequency/predefined-concepts.
func (s *Server) handleFrequencyPredefinedConcepts(w http.ResponseWriter, r *http.Request) {
	grouped := frequency.ConceptsByCategory(s.concepts)
	categories := frequency.SortedCategories(grouped)

	out := make(map[string][]frequency.Concept, len(grouped))
	for _, cat := range categories {
		out[cat] = grouped[cat]
	}
	s.respondJSON(w, http.StatusOK, out)
}
