package api

import "github.com/go-chi/chi/v5"

// SetupRoutes registers the suggestion server routes.
func SetupRoutes(router chi.Router, handlers *Handlers) {
	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/suggest", handlers.Suggest)              // Completion candidates
		r.Get("/templates", handlers.Templates)           // Template catalog
		r.Get("/schema", handlers.Schema)                 // Current schema
		r.Post("/schema/refresh", handlers.RefreshSchema) // Force reload
	})

	router.Get("/healthz", handlers.Health)
}
