// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/storeadmin/internal/app/system/apiresp"
	"github.com/dalemusser/storeadmin/internal/app/system/auth"
	"github.com/dalemusser/storeadmin/internal/app/system/viewdata"
)

// pageData is the basic view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Message string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct {
	Render viewdata.Renderer
}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{Render: viewdata.Render}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Access denied", "/"),
		Message: "You don't have permission to view this page.",
	}
	w.WriteHeader(http.StatusForbidden)
	h.Render(w, r, "error_forbidden", data)
}

// NotFound answers unknown paths: a page for browsers, JSON for API callers.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if !auth.WantsHTML(r) {
		apiresp.Error(w, http.StatusNotFound, "not found")
		return
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Page not found", "/"),
		Message: "The page you were looking for does not exist.",
	}
	w.WriteHeader(http.StatusNotFound)
	h.Render(w, r, "error_not_found", data)
}
