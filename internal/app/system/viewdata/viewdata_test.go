package viewdata_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/storeadmin/internal/app/system/viewdata"
	"github.com/dalemusser/storeadmin/internal/testutil"
)

func TestNewBaseVM_Visitor(t *testing.T) {
	vm := viewdata.NewBaseVM(testutil.NewRequest(http.MethodGet, "/"), "Sign in", "/")

	if vm.IsLoggedIn || vm.IsAdmin {
		t.Errorf("visitor should not be logged in: %+v", vm)
	}
	if vm.Title != "Sign in" || vm.SiteName != viewdata.SiteName {
		t.Errorf("unexpected page fields: %+v", vm)
	}
}

func TestNewBaseVM_Admin(t *testing.T) {
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/products", testutil.AdminUser())
	vm := viewdata.NewBaseVM(req, "Products", "/dashboard")

	if !vm.IsLoggedIn || !vm.IsAdmin {
		t.Errorf("admin flags not set: %+v", vm)
	}
	if vm.UserName != "Test Admin" || vm.UserEmail != "admin@test.com" {
		t.Errorf("user fields: %+v", vm)
	}
}

func TestNewBaseVM_Customer(t *testing.T) {
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/home", testutil.CustomerUser())
	vm := viewdata.NewBaseVM(req, "Home", "/")

	if !vm.IsLoggedIn || vm.IsAdmin {
		t.Errorf("customer flags wrong: %+v", vm)
	}
}

func TestNewLoginVM(t *testing.T) {
	req := testutil.NewRequest(http.MethodGet, "/?return=%2Fdashboard%2Fproducts&error=credentials")
	vm := viewdata.NewLoginVM(req, true)

	if vm.ReturnURL != "/dashboard/products" {
		t.Errorf("ReturnURL: got %q", vm.ReturnURL)
	}
	if vm.Error != viewdata.LoginErrorMessage("credentials") || vm.Error == "" {
		t.Errorf("Error: got %q", vm.Error)
	}
	if !vm.GoogleEnabled {
		t.Error("GoogleEnabled not carried")
	}
}

func TestNewLoginVM_RejectsOffsiteReturn(t *testing.T) {
	req := testutil.NewRequest(http.MethodGet, "/?return=https%3A%2F%2Fevil.example%2F")
	vm := viewdata.NewLoginVM(req, false)

	if vm.ReturnURL != "" {
		t.Errorf("offsite return should be dropped, got %q", vm.ReturnURL)
	}
}

func TestLoginErrorMessage_Unknown(t *testing.T) {
	if msg := viewdata.LoginErrorMessage("<script>"); msg != "" {
		t.Errorf("unknown code should map to empty, got %q", msg)
	}
}
