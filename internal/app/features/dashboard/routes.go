// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/storeadmin/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboard API under whatever mount point the top-level
// router chooses (e.g., "/api/admin/dashboard"). Only admins may read it.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))
		pr.Get("/", h.ServeDashboard)
	})

	return r
}
