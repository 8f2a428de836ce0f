// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/storeadmin/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// Renderer writes the named template with data. Handlers hold one so tests
// can capture what would be rendered.
type Renderer func(w http.ResponseWriter, r *http.Request, name string, data any)

// Render is the production Renderer backed by the shared template engine.
func Render(w http.ResponseWriter, r *http.Request, name string, data any) {
	templates.Render(w, r, name, data)
}

// SiteName is shown in the console header and page titles.
const SiteName = "Store Admin"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	IsAdmin    bool
	Role       string
	UserName   string
	UserEmail  string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.IsAdmin = u.IsAdmin()
		vm.Role = u.Role
		vm.UserName = u.Name
		vm.UserEmail = u.Email
	}
	return vm
}

// LoginVM is the view model for the sign-in page.
type LoginVM struct {
	BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

// loginErrors maps the ?error= codes used by sign-in redirects to messages.
var loginErrors = map[string]string{
	"credentials":           "Invalid email or password.",
	"disabled":              "This account has been disabled.",
	"not_admin":             "This account cannot sign in to the console.",
	"no_account":            "No console account exists for that Google address.",
	"google_denied":         "Google sign-in was cancelled.",
	"google_not_configured": "Google sign-in is not available.",
	"invalid_state":         "Your sign-in link expired. Please try again.",
	"rate_limited":          "Too many sign-in attempts. Please wait a few minutes.",
	"internal":              "Something went wrong. Please try again.",
}

// LoginErrorMessage returns the message for a sign-in error code, or "" for
// unknown codes.
func LoginErrorMessage(code string) string {
	return loginErrors[code]
}

// NewLoginVM builds the sign-in page model from the request's "return" and
// "error" query parameters.
func NewLoginVM(r *http.Request, googleEnabled bool) LoginVM {
	return LoginVM{
		BaseVM:        NewBaseVM(r, "Sign in", "/"),
		Error:         LoginErrorMessage(query.Get(r, "error")),
		ReturnURL:     urlutil.SafeReturn(query.Get(r, "return"), "", ""),
		GoogleEnabled: googleEnabled,
	}
}
