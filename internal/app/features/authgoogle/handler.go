// internal/app/features/authgoogle/handler.go

// Package authgoogle implements "Sign in with Google" for traveler
// accounts. The OAuth state is double-guarded: a signed browser cookie
// proves the callback came from the same browser that started the flow,
// and a one-time Mongo record (TTL-expired) proves it was never replayed.
//
// A Google identity with no account yet gets a traveler account created on
// first sign-in. Organizer, host, doctor, and admin accounts use password
// login only.
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/gorilla/securecookie"
	"github.com/wayfarehq/wayfare/internal/app/store/oauthstate"
	userstore "github.com/wayfarehq/wayfare/internal/app/store/users"
	"github.com/wayfarehq/wayfare/internal/app/system/auditlog"
	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateCookie = "wayfare_oauth_state"
	stateTTL    = 10 * time.Minute
)

type Handler struct {
	Users      *userstore.Store
	States     *oauthstate.Store
	SessionMgr *auth.SessionManager
	ErrLog     *httperr.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string
	secure       *securecookie.SecureCookie
}

// NewHandler constructs the Google OAuth handler. baseURL is the public
// origin of this service; cookieKey signs the state cookie.
func NewHandler(users *userstore.Store, states *oauthstate.Store, sm *auth.SessionManager, errLog *httperr.ErrorLogger, audit *auditlog.Logger, clientID, clientSecret, baseURL, cookieKey string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        users,
		States:       states,
		SessionMgr:   sm,
		ErrLog:       errLog,
		AuditLog:     audit,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		secure:       securecookie.New([]byte(cookieKey), nil),
	}
}

// IsConfigured reports whether Google OAuth credentials are present.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

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
		Endpoint: google.Endpoint,
	}
}

// ServeLogin handles GET /auth/google: starts the flow by redirecting to
// Google's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("google oauth not configured")
		http.Redirect(w, r, "/login?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("generate oauth state failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	returnURL := query.Get(r, "return")
	if err := h.States.Save(ctx, state, returnURL, time.Now().UTC().Add(stateTTL)); err != nil {
		h.Log.Error("save oauth state failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	if encoded, err := h.secure.Encode(stateCookie, state); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     stateCookie,
			Value:    encoded,
			Path:     "/auth/google",
			MaxAge:   int(stateTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	} else {
		h.Log.Error("encode state cookie failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/google/callback.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("google oauth denied",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" || !h.stateCookieMatches(r, state) {
		h.Log.Warn("oauth state cookie mismatch")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	returnURL, valid, err := h.States.Validate(ctx, state)
	if err != nil {
		h.Log.Error("validate oauth state failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	if !valid {
		h.Log.Warn("expired or replayed oauth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}
	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("oauth code exchange failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	info, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("fetch google user info failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}
	if !info.EmailVerified {
		http.Redirect(w, r, "/login?error=email_unverified", http.StatusSeeOther)
		return
	}

	u, created, err := h.findOrCreateTraveler(ctx, info)
	if err != nil {
		if errors.Is(err, errUserDisabled) {
			http.Redirect(w, r, "/login?error=account_disabled", http.StatusSeeOther)
			return
		}
		if errors.Is(err, errAuthMismatch) {
			http.Redirect(w, r, "/login?error=password_account", http.StatusSeeOther)
			return
		}
		h.Log.Error("google sign-in lookup failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	su := &auth.SessionUser{
		ID:          u.ID.Hex(),
		Name:        u.FullName,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: u.Permissions,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("sign-in after google auth failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	h.AuditLog.GoogleSignIn(ctx, r, u.ID, u.Email, created)

	if returnURL == "" {
		returnURL = "/"
	}
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

var (
	errUserDisabled = errors.New("user disabled")
	errAuthMismatch = errors.New("account uses password auth")
)

// findOrCreateTraveler resolves the Google identity to a local account,
// creating a traveler account on first sign-in.
func (h *Handler) findOrCreateTraveler(ctx context.Context, info *googleUserInfo) (*models.User, bool, error) {
	u, err := h.Users.GetByEmail(ctx, info.Email)
	if err == nil {
		if u.Status == models.StatusDisabled {
			return nil, false, errUserDisabled
		}
		if u.AuthMethod != "google" {
			return nil, false, errAuthMismatch
		}
		return u, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	created, err := h.Users.Create(ctx, models.User{
		FullName:   info.Name,
		Email:      info.Email,
		AuthMethod: "google",
		Role:       models.RoleTraveler,
	})
	if err != nil {
		return nil, false, err
	}
	return &created, true, nil
}

func (h *Handler) stateCookieMatches(r *http.Request, state string) bool {
	c, err := r.Cookie(stateCookie)
	if err != nil {
		return false
	}
	var got string
	if err := h.secure.Decode(stateCookie, c.Value, &got); err != nil {
		return false
	}
	return got == state
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if info.Email == "" {
		return nil, errors.New("userinfo response has no email")
	}
	return &info, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
