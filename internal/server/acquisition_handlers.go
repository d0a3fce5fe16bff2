package server

import (
	"encoding/json"
	"net/http"
	"os"

	"bibliometric-api/internal/acquisition"
	"bibliometric-api/internal/acquisition/export"
	"bibliometric-api/internal/apierror"
	"bibliometric-api/internal/core"

	"github.com/go-chi/chi/v5"
)

// handleDataDownload handles POST /api/v1/data/download: submits an
// acquisition job and returns its id immediately per the documented
// "submission returns a handle immediately" lifecycle.
func (s *Server) handleDataDownload(w http.ResponseWriter, r *http.Request) {
	var req acquisition.Request
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.Query == "" || len(req.Sources) == 0 {
		s.respondError(w, apierror.Validation("query and at least one source are required", nil))
		return
	}

	job, err := s.pipeline.Submit(r.Context(), req)
	if err != nil {
		s.respondError(w, apierror.Validation(err.Error(), nil))
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID})
}

// handleDataStatus handles GET /api/v1/data/status/{jobID}.
func (s *Server) handleDataStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job, err := s.pipeline.Jobs().Get(jobID)
	if err != nil {
		s.respondError(w, apierror.NotFound("unknown job id: "+jobID))
		return
	}
	s.respondJSON(w, http.StatusOK, job)
}

// handleDataJobs handles GET /api/v1/data/jobs.
func (s *Server) handleDataJobs(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.pipeline.Jobs().List())
}

// handleDataUnified handles GET /api/v1/data/unified?job_id=…: reads back
// the job's JSON artifact (the canonical record set) and decodes it. The
// artifact exists only when json was among the job's export_formats (or
// the list was empty); otherwise the request gets 404.
func (s *Server) handleDataUnified(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		s.respondError(w, apierror.Validation("job_id query parameter is required", nil))
		return
	}
	job, err := s.pipeline.Jobs().Get(jobID)
	if err != nil {
		s.respondError(w, apierror.NotFound("unknown job id: "+jobID))
		return
	}
	path, ok := job.ArtifactPaths["json"]
	if !ok {
		s.respondError(w, apierror.NotFound("job did not export a json artifact"))
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.respondError(w, apierror.ExportFailed("failed to read unified export: "+err.Error()))
		return
	}
	var records []core.Publication
	if err := json.Unmarshal(data, &records); err != nil {
		s.respondError(w, apierror.ExportFailed("failed to decode unified export: "+err.Error()))
		return
	}
	s.respondJSON(w, http.StatusOK, records)
}

// handleDataDuplicates handles GET /api/v1/data/duplicates/{jobID}.
func (s *Server) handleDataDuplicates(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job, err := s.pipeline.Jobs().Get(jobID)
	if err != nil {
		s.respondError(w, apierror.NotFound("unknown job id: "+jobID))
		return
	}
	path, ok := job.ArtifactPaths["duplicates"]
	if !ok {
		s.respondError(w, apierror.NotFound("job did not produce a duplicate report"))
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.respondError(w, apierror.ExportFailed("failed to read duplicate report: "+err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleDataArtifact handles GET /api/v1/data/download/{jobID}/{format}:
// serves the raw artifact bytes with the format's content type.
func (s *Server) handleDataArtifact(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	formatParam := chi.URLParam(r, "format")

	format, err := export.ParseFormat(formatParam)
	if err != nil {
		s.respondError(w, apierror.NotFound("unknown export format: "+formatParam))
		return
	}

	job, err := s.pipeline.Jobs().Get(jobID)
	if err != nil {
		s.respondError(w, apierror.NotFound("unknown job id: "+jobID))
		return
	}
	path, ok := job.ArtifactPaths[string(format)]
	if !ok {
		s.respondError(w, apierror.NotFound("job has no artifact for format: "+formatParam))
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.respondError(w, apierror.ExportFailed("failed to read artifact: "+err.Error()))
		return
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleDataCancel handles DELETE /api/v1/data/cancel/{jobID}.
func (s *Server) handleDataCancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	status, err := s.pipeline.Cancel(jobID)
	if err != nil {
		if status == "" {
			s.respondError(w, apierror.NotFound("unknown job id: "+jobID))
			return
		}
		s.respondError(w, apierror.Conflict(err.Error()))
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// handleDataSources handles GET /api/v1/data/sources.
func (s *Server) handleDataSources(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.pipeline.Sources().Descriptors())
}
