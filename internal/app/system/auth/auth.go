// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey   = "is_authenticated"
	userIDKey   = "user_id"
	userNameKey = "user_name"
)

// SessionUser is what handlers see for the authenticated caller. It is
// refreshed from the users collection on every request (via UserFetcher),
// so role, permission, and disabled-account changes take effect on the
// caller's next request.
type SessionUser struct {
	ID          string
	Name        string
	Email       string
	Role        string
	Permissions []string
}

// HasPermission reports whether the session user carries the given admin
// permission. Always false for non-admin roles.
func (u *SessionUser) HasPermission(perm string) bool {
	if u == nil || u.Role != "admin" {
		return false
	}
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// UserFetcher loads fresh user data for the session's user ID.
// Return (nil, nil) when the user no longer exists or is disabled; the
// session is then invalidated.
type UserFetcher interface {
	FetchSessionUser(ctx context.Context, userID string) (*SessionUser, error)
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user injected by LoadSessionUser and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie session store and the auth middleware.
// It is constructed once at startup in bootstrap.
type SessionManager struct {
	store       *sessions.CookieStore
	sessionName string
	fetcher     UserFetcher
	log         *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager.
//
// In production (secure=true) cookies are Secure + SameSite=None so the SPA
// can be served from a different origin over HTTPS. In local dev over
// http://localhost use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, sessionName, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{
		store:       store,
		sessionName: sessionName,
		log:         logger,
	}, nil
}

// SetUserFetcher installs the fetcher used to refresh session users from the
// database on each request.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) {
	sm.fetcher = f
}

// SignIn writes the session cookie for the given user.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess, _ := sm.store.Get(r, sm.sessionName)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userNameKey] = u.Name
	return sess.Save(r, w)
}

// SignOut destroys the caller's session.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.sessionName)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSessionUser injects the user into context if they are signed in.
// If the cookie fails to decode (tampered or signed with an old key) the
// request proceeds anonymously and the stale cookie is dropped.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.sessionName)
		if err != nil {
			if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
				sess.Options.MaxAge = -1
				_ = sess.Save(r, w)
			}
			next.ServeHTTP(w, r)
			return
		}

		isAuth, _ := sess.Values[isAuthKey].(bool)
		if !isAuth {
			next.ServeHTTP(w, r)
			return
		}

		u := &SessionUser{
			ID:   getString(sess, userIDKey),
			Name: getString(sess, userNameKey),
		}

		// Refresh role/permissions/status from the database so account
		// changes apply immediately. A vanished or disabled user is
		// treated as signed out.
		if sm.fetcher != nil {
			fresh, err := sm.fetcher.FetchSessionUser(r.Context(), u.ID)
			if err != nil {
				sm.log.Warn("session user refresh failed", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if fresh == nil {
				sess.Options.MaxAge = -1
				_ = sess.Save(r, w)
				next.ServeHTTP(w, r)
				return
			}
			u = fresh
		}

		next.ServeHTTP(w, withUser(r, u))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// Unauthenticated callers get a 401 JSON envelope.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		httperr.Unauthenticated(w, "")
	})
}

// RequireRole ensures the signed-in user has one of the allowed roles.
// Not signed in → 401; signed in with the wrong role → 403.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httperr.Unauthenticated(w, "")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				httperr.Forbidden(w, "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithTestUser injects a user directly into the request context, bypassing
// the cookie store. Test helper; never used by production code paths.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
