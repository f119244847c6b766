// Package router sets up all HTTP routes and middleware chains for the
// catalog service. Read endpoints are grouped per entity type; write and
// ops endpoints sit alongside them under /api.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"catalogd/internal/handlers"
	"catalogd/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/catalogs", func(r chi.Router) {
			r.Get("/", api.CatalogsList)
			r.Post("/", api.CatalogsSave)
			r.Get("/{id}", api.CatalogGet)
			r.Delete("/{id}", api.CatalogDelete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", api.CategoriesSave)
			r.Post("/batch", api.CategoriesBatch)
			r.Get("/{id}", api.CategoryGet)
			r.Delete("/{id}", api.CategoryDelete)
			r.Get("/{id}/products", api.CategoryProducts)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", api.ProductsSave)
			r.Post("/batch", api.ProductsBatch)
			r.Post("/bulk", api.ProductsBulk)
			r.Get("/{id}", api.ProductGet)
			r.Delete("/{id}", api.ProductDelete)
		})

		r.Route("/properties", func(r chi.Router) {
			r.Post("/", api.PropertiesSave)
			r.Delete("/{id}", api.PropertyDelete)
		})

		r.Post("/cache/invalidate", api.CacheInvalidate)
		r.Post("/media", api.MediaUpload)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
