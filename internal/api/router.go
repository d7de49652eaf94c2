package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter constructs the chi router with middleware and routes.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/entities", func(r chi.Router) {
			r.Get("/", s.handleListEntities)
			r.Get("/{id}", s.handleGetEntity)
			r.Get("/{id}/state", s.handleGetEntityState)
			r.Get("/{id}/history", s.handleGetEntityHistory)
		})
	})

	r.Get("/ws", s.handleWebSocket)

	return r
}

// handleHealth returns server status and version.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"entities": s.registry.Count(),
	})
}
