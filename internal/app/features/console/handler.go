// internal/app/features/console/handler.go
package console

import (
	"errors"
	"net/http"

	"github.com/dalemusser/storeadmin/internal/app/system/auth"
	"github.com/dalemusser/storeadmin/internal/app/system/authz"
	"github.com/dalemusser/storeadmin/internal/app/system/routetable"
	"github.com/dalemusser/storeadmin/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Loader fetches the data a view needs. Returning ErrNotFound renders the
// not-found page.
type Loader func(r *http.Request, m routetable.Match) (any, error)

// ErrNotFound is returned by a Loader when the addressed record is missing.
var ErrNotFound = errors.New("console: not found")

// Handler serves the console route tree: resolve, gate, load, render.
type Handler struct {
	Table         *routetable.Table
	Loaders       map[string]Loader
	GoogleEnabled bool
	NotFound      http.HandlerFunc
	Render        viewdata.Renderer
	Log           *zap.Logger
}

// Page is the view model for every console view except the sign-in page.
type Page struct {
	viewdata.BaseVM
	View   string
	Layout string
	Params map[string]string
	Data   any
}

var titles = map[string]string{
	routetable.ViewHome:          "Home",
	routetable.ViewDashboard:     "Dashboard",
	routetable.ViewAddProducts:   "Add product",
	routetable.ViewProductList:   "Products",
	routetable.ViewProductDetail: "Product details",
	routetable.ViewProductUpdate: "Edit product",
	routetable.ViewAdminProfile:  "Profile",
}

// Serve handles every console path. The gate is evaluated on each request;
// a view behind it is never loaded or rendered for a caller it rejects.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	m, ok := h.Table.Resolve(r.URL.Path)
	if !ok {
		h.NotFound(w, r)
		return
	}

	_, signedIn := auth.CurrentUser(r)
	principal := routetable.Principal{SignedIn: signedIn, Capabilities: authz.Capabilities(r)}

	switch routetable.Gate(m, principal) {
	case routetable.SignIn:
		auth.Unauthenticated(w, r)
		return
	case routetable.Deny:
		auth.Forbidden(w, r)
		return
	}

	if m.View == routetable.ViewLogin {
		h.serveLogin(w, r)
		return
	}

	data := Page{
		BaseVM: viewdata.NewBaseVM(r, titles[m.View], "/dashboard"),
		View:   m.View,
		Layout: m.Layout(),
		Params: m.Params,
	}

	if load, ok := h.Loaders[m.View]; ok {
		v, err := load(r, m)
		if errors.Is(err, ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		if err != nil {
			h.Log.Error("console: load view data",
				zap.String("view", m.View),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		data.Data = v
	}

	h.Render(w, r, m.View, data)
}

// serveLogin shows the sign-in page, or sends a signed-in admin straight to
// the dashboard.
func (h *Handler) serveLogin(w http.ResponseWriter, r *http.Request) {
	if authz.IsAdmin(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.Render(w, r, routetable.ViewLogin, viewdata.NewLoginVM(r, h.GoogleEnabled))
}
