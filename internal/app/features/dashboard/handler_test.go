package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/storeadmin/internal/app/features/dashboard"
	"github.com/dalemusser/storeadmin/internal/app/store/queries/dashboardqueries"
	"github.com/dalemusser/storeadmin/internal/app/system/apiresp"
	"github.com/dalemusser/storeadmin/internal/app/system/auth"
	"github.com/dalemusser/storeadmin/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSnapshots struct {
	snap dashboardqueries.Snapshot
	err  error
}

func (f fakeSnapshots) Build(ctx context.Context) (dashboardqueries.Snapshot, error) {
	return f.snap, f.err
}

func strp(s string) *string { return &s }

func newSessionMgr(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

func TestServeDashboard_ReturnsSnapshot(t *testing.T) {
	snap := dashboardqueries.Snapshot{
		CountOverallProducts: 2,
		FormattedCategories: []dashboardqueries.CategoryGroup{
			{Name: strp("Clothing"), Count: 2, Products: []dashboardqueries.SubcategoryGroup{}},
		},
		FormattedBrands: []dashboardqueries.BrandGroup{},
		CountTotalUsers: 5,
	}
	h := dashboard.NewHandlerWith(fakeSnapshots{snap: snap}, zap.NewNop())

	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/admin/dashboard", testutil.AdminUser()))

	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	for _, key := range []string{"countOverallProducts", "formattedCategories", "formattedBrands", "countTotalUsers"} {
		if _, ok := got[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}
	if string(got["countTotalUsers"]) != "5" {
		t.Errorf("countTotalUsers: got %s", got["countTotalUsers"])
	}
}

func TestServeDashboard_StoreFault(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := dashboard.NewHandlerWith(fakeSnapshots{err: errors.New("socket closed")}, zap.New(core))

	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/admin/dashboard", testutil.AdminUser()))

	rec.AssertStatus(t, http.StatusInternalServerError)

	var body string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected a JSON string body, got %q", rec.Body.String())
	}
	if body != apiresp.ServerErrorBody {
		t.Errorf("body: got %q, want %q", body, apiresp.ServerErrorBody)
	}
	rec.AssertNotContains(t, "countOverallProducts")
	rec.AssertNotContains(t, "socket closed")

	if logs.Len() != 1 {
		t.Fatalf("expected one error log, got %d", logs.Len())
	}
	if logs.All()[0].ContextMap()["error"] != "socket closed" {
		t.Errorf("cause not logged: %v", logs.All()[0].ContextMap())
	}
}

func TestRoutes_RequiresSession(t *testing.T) {
	sm := newSessionMgr(t)
	router := dashboard.Routes(dashboard.NewHandlerWith(fakeSnapshots{}, zap.NewNop()), sm)

	req := testutil.NewJSONRequest(http.MethodGet, "/", "")
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, `"error":"unauthorized"`)
}

func TestRoutes_RejectsCustomer(t *testing.T) {
	sm := newSessionMgr(t)
	router := dashboard.Routes(dashboard.NewHandlerWith(fakeSnapshots{}, zap.NewNop()), sm)

	req := testutil.WithUser(testutil.NewJSONRequest(http.MethodGet, "/", ""), testutil.CustomerUser())
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestRoutes_AdminSeesSnapshot(t *testing.T) {
	sm := newSessionMgr(t)
	snap := dashboardqueries.Snapshot{
		FormattedCategories: []dashboardqueries.CategoryGroup{},
		FormattedBrands:     []dashboardqueries.BrandGroup{},
		CountTotalUsers:     1,
	}
	router := dashboard.Routes(dashboard.NewHandlerWith(fakeSnapshots{snap: snap}, zap.NewNop()), sm)

	req := testutil.WithUser(testutil.NewJSONRequest(http.MethodGet, "/", ""), testutil.AdminUser())
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"formattedCategories":[]`)
}

func TestServeDashboard_MongoStores(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateProduct(ctx, "Tee", "Clothing", "Tops", "North")
	fx.CreateProduct(ctx, "Boot", "Clothing", "Shoes", "North")
	fx.CreateProduct(ctx, "Ball", "Sport", "Balls", "Fleet")
	fx.CreateAdmin(ctx, "Ada Admin", "ada@example.com")

	h := dashboard.NewHandler(db, zap.NewNop())
	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/admin/dashboard", testutil.AdminUser()))

	rec.AssertStatus(t, http.StatusOK)

	var snap dashboardqueries.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if snap.CountOverallProducts != 3 {
		t.Errorf("countOverallProducts: got %d, want 3", snap.CountOverallProducts)
	}
	if snap.CountTotalUsers != 1 {
		t.Errorf("countTotalUsers: got %d, want 1", snap.CountTotalUsers)
	}
	if len(snap.FormattedCategories) != 2 || *snap.FormattedCategories[0].Name != "Clothing" {
		t.Fatalf("unexpected categories: %+v", snap.FormattedCategories)
	}
	if len(snap.FormattedCategories[0].Products) != 2 {
		t.Errorf("Clothing subcategories: got %d, want 2", len(snap.FormattedCategories[0].Products))
	}
	if len(snap.FormattedBrands) != 2 {
		t.Errorf("brands: got %d, want 2", len(snap.FormattedBrands))
	}
}
