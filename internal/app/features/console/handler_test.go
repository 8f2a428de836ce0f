package console_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dalemusser/storeadmin/internal/app/features/console"
	"github.com/dalemusser/storeadmin/internal/app/system/routetable"
	"github.com/dalemusser/storeadmin/internal/app/system/viewdata"
	"github.com/dalemusser/storeadmin/internal/domain/models"
	"github.com/dalemusser/storeadmin/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type rendered struct {
	name string
	data any
}

type harness struct {
	handler  *console.Handler
	views    []rendered
	notFound int
}

func newHarness(loaders map[string]console.Loader) *harness {
	h := &harness{}
	h.handler = &console.Handler{
		Table:   routetable.Console,
		Loaders: loaders,
		NotFound: func(w http.ResponseWriter, r *http.Request) {
			h.notFound++
			w.WriteHeader(http.StatusNotFound)
		},
		Render: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			h.views = append(h.views, rendered{name: name, data: data})
			w.WriteHeader(http.StatusOK)
		},
		Log: zap.NewNop(),
	}
	return h
}

func (h *harness) serve(req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	console.Routes(h.handler).ServeHTTP(rec, req)
	return rec
}

func browser(req *http.Request) *http.Request {
	req.Header.Set("Accept", "text/html")
	return req
}

func TestServe_GatedRouteRedirectsVisitorToSignIn(t *testing.T) {
	h := newHarness(nil)

	rec := h.serve(browser(testutil.NewRequest(http.MethodGet, "/dashboard/products")))

	rec.AssertStatus(t, http.StatusSeeOther)
	rec.AssertRedirect(t, "/?return=%2Fdashboard%2Fproducts")
	if len(h.views) != 0 {
		t.Errorf("nothing should render for a visitor, got %v", h.views)
	}
}

func TestServe_GatedRouteAPIVisitorGets401(t *testing.T) {
	h := newHarness(nil)

	rec := h.serve(testutil.NewRequest(http.MethodGet, "/dashboard"))

	rec.AssertStatus(t, http.StatusUnauthorized)
	if len(h.views) != 0 {
		t.Errorf("nothing should render, got %v", h.views)
	}
}

func TestServe_CustomerIsDenied(t *testing.T) {
	loaded := false
	h := newHarness(map[string]console.Loader{
		routetable.ViewDashboard: func(r *http.Request, m routetable.Match) (any, error) {
			loaded = true
			return nil, nil
		},
	})

	req := browser(testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard", testutil.CustomerUser()))
	rec := h.serve(req)

	rec.AssertStatus(t, http.StatusSeeOther)
	rec.AssertRedirect(t, "/forbidden")
	if loaded {
		t.Error("loader must not run for a denied caller")
	}
	if len(h.views) != 0 {
		t.Errorf("nothing should render, got %v", h.views)
	}
}

func TestServe_AdminSeesDashboard(t *testing.T) {
	h := newHarness(map[string]console.Loader{
		routetable.ViewDashboard: func(r *http.Request, m routetable.Match) (any, error) {
			return "snapshot", nil
		},
	})

	rec := h.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard", testutil.AdminUser()))

	rec.AssertStatus(t, http.StatusOK)
	if len(h.views) != 1 || h.views[0].name != routetable.ViewDashboard {
		t.Fatalf("expected dashboard view, got %v", h.views)
	}
	page, ok := h.views[0].data.(console.Page)
	if !ok {
		t.Fatalf("view data: got %T, want console.Page", h.views[0].data)
	}
	if page.Data != "snapshot" {
		t.Errorf("Data: got %v, want %q", page.Data, "snapshot")
	}
	if page.Layout != routetable.LayoutDashboard {
		t.Errorf("Layout: got %q, want %q", page.Layout, routetable.LayoutDashboard)
	}
	if !page.IsAdmin {
		t.Error("expected IsAdmin in the base view model")
	}
}

func TestServe_ParamsReachLoader(t *testing.T) {
	var gotID string
	h := newHarness(map[string]console.Loader{
		routetable.ViewProductDetail: func(r *http.Request, m routetable.Match) (any, error) {
			gotID = m.Params["id"]
			return models.Product{Name: "Runner"}, nil
		},
	})

	rec := h.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/products/details/abc123", testutil.AdminUser()))

	rec.AssertStatus(t, http.StatusOK)
	if gotID != "abc123" {
		t.Errorf("id param: got %q, want %q", gotID, "abc123")
	}
	if len(h.views) != 1 || h.views[0].name != routetable.ViewProductDetail {
		t.Errorf("expected product_detail view, got %v", h.views)
	}
}

func TestServe_LoaderNotFound(t *testing.T) {
	h := newHarness(map[string]console.Loader{
		routetable.ViewProductUpdate: func(r *http.Request, m routetable.Match) (any, error) {
			return nil, console.ErrNotFound
		},
	})

	rec := h.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/products/update/missing", testutil.AdminUser()))

	rec.AssertStatus(t, http.StatusNotFound)
	if h.notFound != 1 {
		t.Errorf("expected not-found handler once, got %d", h.notFound)
	}
	if len(h.views) != 0 {
		t.Errorf("nothing should render, got %v", h.views)
	}
}

func TestServe_LoaderFailure(t *testing.T) {
	h := newHarness(map[string]console.Loader{
		routetable.ViewProductList: func(r *http.Request, m routetable.Match) (any, error) {
			return nil, errors.New("boom")
		},
	})

	rec := h.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/products", testutil.AdminUser()))

	rec.AssertStatus(t, http.StatusInternalServerError)
	rec.AssertNotContains(t, "boom")
}

func TestServe_PublicRoutesAreOpen(t *testing.T) {
	h := newHarness(nil)

	for _, path := range []string{"/", "/home"} {
		rec := h.serve(browser(testutil.NewRequest(http.MethodGet, path)))
		rec.AssertStatus(t, http.StatusOK)
	}
	if len(h.views) != 2 {
		t.Fatalf("expected 2 renders, got %d", len(h.views))
	}
	if h.views[0].name != routetable.ViewLogin {
		t.Errorf("/ rendered %q, want %q", h.views[0].name, routetable.ViewLogin)
	}
	if _, ok := h.views[0].data.(viewdata.LoginVM); !ok {
		t.Errorf("login view data: got %T, want viewdata.LoginVM", h.views[0].data)
	}
	if h.views[1].name != routetable.ViewHome {
		t.Errorf("/home rendered %q, want %q", h.views[1].name, routetable.ViewHome)
	}
}

func TestServe_SignedInAdminSkipsLogin(t *testing.T) {
	h := newHarness(nil)

	rec := h.serve(browser(testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.AdminUser())))

	rec.AssertStatus(t, http.StatusSeeOther)
	rec.AssertRedirect(t, "/dashboard")
}

func TestServe_TrailingSlash(t *testing.T) {
	h := newHarness(map[string]console.Loader{
		routetable.ViewProductList: func(r *http.Request, m routetable.Match) (any, error) { return "rows", nil },
	})

	rec := h.serve(browser(testutil.NewRequest(http.MethodGet, "/dashboard/products/")))
	rec.AssertStatus(t, http.StatusSeeOther)
	rec.AssertRedirect(t, "/?return=%2Fdashboard%2Fproducts%2F")

	rec = h.serve(browser(testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/", testutil.AdminUser())))
	rec.AssertStatus(t, http.StatusOK)

	rec = h.serve(browser(testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/products/", testutil.AdminUser())))
	rec.AssertStatus(t, http.StatusOK)
	if len(h.views) != 2 || h.views[1].name != routetable.ViewProductList {
		t.Fatalf("expected product list rendered, got %+v", h.views)
	}
	if h.notFound != 0 {
		t.Errorf("expected no not-found calls, got %d", h.notFound)
	}
}

func TestServe_UnknownPath(t *testing.T) {
	h := newHarness(nil)

	rec := h.serve(testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/nope/deeper", testutil.AdminUser()))

	rec.AssertStatus(t, http.StatusNotFound)
	if h.notFound != 1 {
		t.Errorf("expected not-found handler once, got %d", h.notFound)
	}
}

func TestRoutes_RegistersEveryPattern(t *testing.T) {
	h := newHarness(nil)
	router := console.Routes(h.handler)

	var got []string
	_ = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got = append(got, route)
		return nil
	})

	want := map[string]bool{
		"/":                                true,
		"/home":                            true,
		"/dashboard":                       true,
		"/dashboard/addProducts":           true,
		"/dashboard/products":              true,
		"/dashboard/products/details/{id}": true,
		"/dashboard/products/update/{id}":  true,
		"/dashboard/adminProfile":          true,
	}
	for _, r := range got {
		delete(want, r)
	}
	if len(want) != 0 {
		t.Errorf("routes not registered: %v (got %v)", want, got)
	}
}
