// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/storeadmin/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/storeadmin/internal/app/store/users"
	"github.com/dalemusser/storeadmin/internal/app/system/auth"
	"github.com/dalemusser/storeadmin/internal/app/system/normalize"
	"github.com/dalemusser/storeadmin/internal/app/system/timeouts"
	"github.com/dalemusser/storeadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// stateTTL bounds how long a user may take on Google's consent screen.
const stateTTL = 10 * time.Minute

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Handler handles Google OAuth sign-in for existing admin accounts.
type Handler struct {
	Users      *userstore.Store
	States     *oauthstate.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "https://admin.example.com/auth/google/callback"

	// Endpoint and UserInfoURL default to Google's; tests point them at a
	// local server.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

// NewHandler creates a new Google OAuth handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, clientID, clientSecret, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        userstore.New(db),
		States:       oauthstate.New(db),
		SessionMgr:   sessionMgr,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		Endpoint:     google.Endpoint,
		UserInfoURL:  defaultUserInfoURL,
	}
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: h.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
| Initiates the Google OAuth flow by redirecting to Google's consent screen.   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		redirectToLogin(w, r, "google_not_configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		redirectToLogin(w, r, "internal")
		return
	}
	returnURL := urlutil.SafeReturn(query.Get(r, "return"), "", "")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.States.Save(ctx, state, returnURL, time.Now().UTC().Add(stateTTL)); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		redirectToLogin(w, r, "internal")
		return
	}

	h.Log.Debug("initiating Google OAuth flow", zap.String("return_url", returnURL))
	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
| Exchanges the code, fetches the Google profile, matches it to an admin      |
| account by verified email, and creates the session.                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := query.Get(r, "error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", query.Get(r, "error_description")))
		redirectToLogin(w, r, "google_denied")
		return
	}

	state := query.Get(r, "state")
	code := query.Get(r, "code")
	if state == "" || code == "" {
		h.Log.Warn("missing OAuth state or code")
		redirectToLogin(w, r, "invalid_state")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	returnURL, valid, err := h.States.Consume(ctx, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		redirectToLogin(w, r, "internal")
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		redirectToLogin(w, r, "invalid_state")
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		redirectToLogin(w, r, "google_denied")
		return
	}

	info, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		redirectToLogin(w, r, "internal")
		return
	}

	u, err := h.findAdmin(ctx, info)
	switch {
	case errors.Is(err, errNoAccount):
		h.Log.Info("Google OAuth: no matching admin", zap.String("email", info.Email))
		redirectToLogin(w, r, "no_account")
		return
	case errors.Is(err, errDisabled):
		redirectToLogin(w, r, "disabled")
		return
	case errors.Is(err, errNotAdmin):
		redirectToLogin(w, r, "not_admin")
		return
	case err != nil:
		h.Log.Error("failed to look up user", zap.Error(err))
		redirectToLogin(w, r, "internal")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, userstore.SessionUser(u)); err != nil {
		h.Log.Error("save session failed", zap.Error(err))
		redirectToLogin(w, r, "internal")
		return
	}
	if err := h.Users.TouchLogin(ctx, u.ID, time.Now()); err != nil {
		h.Log.Warn("record login time", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}

	h.Log.Info("user signed in via Google OAuth",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/dashboard"), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| User lookup                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

var (
	errNoAccount = errors.New("no account")
	errDisabled  = errors.New("user disabled")
	errNotAdmin  = errors.New("not an admin")
)

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// fetchUserInfo retrieves the signed-in Google profile.
func (h *Handler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get(h.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

// findAdmin matches a verified Google email to an existing account. Google
// sign-in never creates accounts.
func (h *Handler) findAdmin(ctx context.Context, info *googleUserInfo) (*models.User, error) {
	if !info.EmailVerified || info.Email == "" {
		return nil, errNoAccount
	}
	u, err := h.Users.GetByEmail(ctx, info.Email)
	if errors.Is(err, userstore.ErrNotFound) {
		return nil, errNoAccount
	}
	if err != nil {
		return nil, err
	}
	if normalize.Status(u.Status) == models.StatusDisabled {
		return nil, errDisabled
	}
	if normalize.Role(u.Role) != models.RoleAdmin {
		return nil, errNotAdmin
	}
	return u, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := securecookie.GenerateRandomKey(32)
	if b == nil {
		return "", errors.New("random source unavailable")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, auth.LoginPath+"?error="+code, http.StatusSeeOther)
}
