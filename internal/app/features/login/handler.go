// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	userstore "github.com/dalemusser/storeadmin/internal/app/store/users"
	"github.com/dalemusser/storeadmin/internal/app/system/apiresp"
	"github.com/dalemusser/storeadmin/internal/app/system/auth"
	"github.com/dalemusser/storeadmin/internal/app/system/authutil"
	"github.com/dalemusser/storeadmin/internal/app/system/limits"
	"github.com/dalemusser/storeadmin/internal/app/system/normalize"
	"github.com/dalemusser/storeadmin/internal/app/system/ratelimit"
	"github.com/dalemusser/storeadmin/internal/app/system/timeouts"
	"github.com/dalemusser/storeadmin/internal/app/system/viewdata"
	"github.com/dalemusser/storeadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrBadCredentials = errors.New("invalid email or password")
	ErrDisabled       = errors.New("account disabled")
	ErrNotAdmin       = errors.New("console access requires an admin account")
)

type Handler struct {
	Users         *userstore.Store
	SessionMgr    *auth.SessionManager
	Log           *zap.Logger
	GoogleEnabled bool
	Render        viewdata.Renderer
	Guard         *ratelimit.LoginGuard // nil disables throttling
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		Users:         userstore.New(db),
		SessionMgr:    sessionMgr,
		Log:           logger,
		GoogleEnabled: googleEnabled,
		Render:        viewdata.Render,
		Guard:         ratelimit.NewLoginGuard(),
	}
}

// throttled records the attempt and reports whether it must be refused.
func (h *Handler) throttled(r *http.Request, email string) bool {
	if h.Guard == nil {
		return false
	}
	if err := h.Guard.Check(r, email); err != nil {
		h.Log.Warn("login throttled",
			zap.String("email", email),
			zap.String("ip", ratelimit.ClientIP(r)),
			zap.Error(err))
		return true
	}
	return false
}

// Authenticate checks credentials for console sign-in. The password is
// verified before account state so a wrong password never reveals whether
// the account is disabled.
func (h *Handler) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.AuthMethod != models.AuthMethodPassword || !authutil.CheckPassword(password, u.PasswordHash) {
		return nil, ErrBadCredentials
	}
	if normalize.Status(u.Status) == models.StatusDisabled {
		return nil, ErrDisabled
	}
	if normalize.Role(u.Role) != models.RoleAdmin {
		return nil, ErrNotAdmin
	}
	return u, nil
}

// signIn writes the session and records the login time.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u *models.User) error {
	if err := h.SessionMgr.SignIn(w, r, userstore.SessionUser(u)); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.Users.TouchLogin(ctx, u.ID, time.Now()); err != nil {
		h.Log.Warn("record login time", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}

	if h.Guard != nil {
		h.Guard.Succeeded(u.Email)
	}

	h.Log.Info("user signed in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login (form)                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderFormWithError(w, r, "credentials", "", "")
		return
	}
	email := normalize.Email(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	ret := urlutil.SafeReturn(strings.TrimSpace(r.PostFormValue("return")), "", "")

	if h.throttled(r, email) {
		w.WriteHeader(http.StatusTooManyRequests)
		h.renderFormWithError(w, r, "rate_limited", email, ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Authenticate(ctx, email, password)
	switch {
	case errors.Is(err, ErrBadCredentials):
		h.Log.Info("login failed", zap.String("email", email))
		h.renderFormWithError(w, r, "credentials", email, ret)
		return
	case errors.Is(err, ErrDisabled):
		h.renderFormWithError(w, r, "disabled", email, ret)
		return
	case errors.Is(err, ErrNotAdmin):
		h.renderFormWithError(w, r, "not_admin", email, ret)
		return
	case err != nil:
		h.Log.Error("login lookup failed", zap.Error(err))
		h.renderFormWithError(w, r, "internal", email, ret)
		return
	}

	if err := h.signIn(w, r, u); err != nil {
		h.Log.Error("save session failed", zap.Error(err))
		h.renderFormWithError(w, r, "internal", email, ret)
		return
	}

	http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/dashboard"), http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, code, email, ret string) {
	vm := viewdata.NewLoginVM(r, h.GoogleEnabled)
	vm.Error = viewdata.LoginErrorMessage(code)
	vm.Email = email
	vm.ReturnURL = ret
	h.Render(w, r, "login", vm)
}

/*─────────────────────────────────────────────────────────────────────────────*
| JSON API                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	User *models.User `json:"user"`
}

// HandleAPILogin handles POST /api/auth/login.
func (h *Handler) HandleAPILogin(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := apiresp.Decode(w, r, &in, limits.MaxCredentialsJSON); err != nil {
		apiresp.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if h.throttled(r, normalize.Email(in.Email)) {
		apiresp.Error(w, http.StatusTooManyRequests, "too many sign-in attempts; try again later")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Authenticate(ctx, in.Email, in.Password)
	switch {
	case errors.Is(err, ErrBadCredentials):
		apiresp.Error(w, http.StatusUnauthorized, ErrBadCredentials.Error())
		return
	case errors.Is(err, ErrDisabled), errors.Is(err, ErrNotAdmin):
		apiresp.Error(w, http.StatusForbidden, err.Error())
		return
	case err != nil:
		apiresp.ServerError(w, r, h.Log, "login lookup failed", err)
		return
	}

	if err := h.signIn(w, r, u); err != nil {
		apiresp.ServerError(w, r, h.Log, "save session failed", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, userResponse{User: u})
}

// ServeMe handles GET /api/auth/me: the signed-in admin's profile.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		auth.Unauthenticated(w, r)
		return
	}
	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		auth.Unauthenticated(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, userstore.ErrNotFound) {
		apiresp.Error(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		apiresp.ServerError(w, r, h.Log, "load profile", err)
		return
	}
	apiresp.JSON(w, http.StatusOK, userResponse{User: u})
}
