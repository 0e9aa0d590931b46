package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// handleHealth reports service health. Any database failing its quick check
// turns the response into 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	databases := make(map[string]string, len(s.databases))
	for _, db := range s.databases {
		if db == nil {
			continue
		}
		if err := db.HealthCheck(ctx); err != nil {
			s.log.Warn().Err(err).Str("database", db.Name()).Msg("Database health check failed")
			databases[db.Name()] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		databases[db.Name()] = "ok"
	}

	response := map[string]interface{}{
		"status":    status,
		"version":   Version,
		"service":   "limitup",
		"databases": databases,
	}

	s.writeJSON(w, code, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
