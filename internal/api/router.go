package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter assembles the middleware chain and the /api/v1 surface.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(
		s.requestIDMiddleware,
		s.loggingMiddleware,
		s.recoveryMiddleware,
		s.corsMiddleware,
		s.bodySizeLimitMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/system/status", s.handleSystemStatus)

		// Stateless spec operations: parse, validate, merge, and
		// ordered scoped resolution. No storage involved.
		r.Route("/specs", func(r chi.Router) {
			r.Post("/parse", s.handleParseSpec)
			r.Post("/validate", s.handleValidateSpec)
			r.Post("/merge", s.handleMergeSpecs)
			r.Post("/resolve", s.handleResolveSpecs)
		})

		// Named profiles, plus per-profile resolution of a candidate
		// device string against the stored spec.
		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.handleListProfiles)
			r.Post("/", s.handleCreateProfile)
			r.Get("/slug/{slug}", s.handleGetProfileBySlug)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetProfile)
				r.Patch("/", s.handleUpdateProfile)
				r.Delete("/", s.handleDeleteProfile)
				r.Get("/resolve", s.handleResolveProfile)
			})
		})
	})

	return r
}

// handleHealth answers liveness probes.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
