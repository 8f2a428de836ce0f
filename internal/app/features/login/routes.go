// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/storeadmin/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves the form post (mounted at "/login"). The sign-in page itself
// is the console's "/" view.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLoginPost)
	return r
}

// APIRoutes serves the JSON endpoints (mounted at "/api/auth").
func APIRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.HandleAPILogin)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
	})
	return r
}
