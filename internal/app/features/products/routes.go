// internal/app/features/products/routes.go
package products

import (
	"github.com/dalemusser/storeadmin/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the product API (e.g., under "/api/products"). Any signed-in
// user may read; changes require the admin role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/facets", h.ServeFacets)
		pr.Get("/{id}", h.ServeGet)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))
		pr.Post("/", h.ServeCreate)
		pr.Put("/{id}", h.ServeUpdate)
		pr.Delete("/{id}", h.ServeDelete)
		pr.Post("/{id}/images", h.ServeUploadImage)
	})

	return r
}
