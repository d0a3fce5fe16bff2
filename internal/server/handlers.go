package server

import (
	"encoding/json"
	"net/http"
	"time"

	"bibliometric-api/internal/apierror"
)

// HealthResponse is the /health response body.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

var serverStartTime = time.Now()

// handleHealth reports process liveness; it does not depend on any engine
// being otherwise reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(serverStartTime).String(),
	})
}

// respondJSON writes data as a JSON response with the given status code.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", "error", err)
	}
}

// respondError maps an error onto the documented error taxonomy and writes
// the stable {error, detail?} body. Unexpected errors become a generic 500
// so internal details never leak to the caller.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	apiErr := apierror.FromError(err)
	if apiErr.Kind == apierror.KindInternal {
		s.log.Error("unhandled internal error", "error", err)
	}
	s.respondJSON(w, apiErr.Status, apiErr.Body())
}

// decodeJSON reads and decodes a JSON request body, returning a
// ValidationError on malformed input.
func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return apierror.Validation("request body is required", nil)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apierror.Validation("malformed request body", map[string]string{"reason": err.Error()})
	}
	return nil
}
