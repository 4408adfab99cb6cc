package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func decodeErrorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not a JSON error envelope: %v", err)
	}
	return body.Error.Kind
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/events/mine", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if kind := decodeErrorKind(t, rec); kind != "unauthenticated" {
		t.Errorf("expected kind %q, got %q", "unauthenticated", kind)
	}
}

func TestRequireSignedIn_WithUser_PassesThrough(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/events/mine", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Role: "organizer"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole_WrongRole_Returns403(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/moderation/events/123/approve", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Role: "organizer"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
	if kind := decodeErrorKind(t, rec); kind != "forbidden" {
		t.Errorf("expected kind %q, got %q", "forbidden", kind)
	}
}

func TestRequireRole_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/moderation/events/123/approve", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireRole_MatchesCaseInsensitively(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole("Admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/moderation/events", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Role: "admin"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestSignInThenLoad_RoundTrips(t *testing.T) {
	sm := newTestSessionManager(t)

	// Sign in and capture the cookie.
	signinRec := httptest.NewRecorder()
	signinReq := httptest.NewRequest("POST", "/login", nil)
	err := sm.SignIn(signinRec, signinReq, &auth.SessionUser{ID: "user-1", Name: "Ann Lee"})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := signinRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie to be set")
	}

	// Replay the cookie through LoadSessionUser.
	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected a session user in context")
	}
	if got.ID != "user-1" || got.Name != "Ann Lee" {
		t.Errorf("unexpected session user: %+v", got)
	}
}

type fetcherFunc func(ctx context.Context, userID string) (*auth.SessionUser, error)

func (f fetcherFunc) FetchSessionUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	return f(ctx, userID)
}

func TestLoadSessionUser_DisabledUser_SignedOut(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(fetcherFunc(func(ctx context.Context, userID string) (*auth.SessionUser, error) {
		return nil, nil // user vanished or disabled
	}))

	signinRec := httptest.NewRecorder()
	signinReq := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(signinRec, signinReq, &auth.SessionUser{ID: "user-1", Name: "Ann"}); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	var found bool
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range signinRec.Result().Cookies() {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Error("expected no session user after fetcher reported the account gone")
	}
}

func TestLoadSessionUser_FetcherRefreshesRole(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(fetcherFunc(func(ctx context.Context, userID string) (*auth.SessionUser, error) {
		return &auth.SessionUser{ID: userID, Name: "Ann", Role: "admin", Permissions: []string{"manage_events"}}, nil
	}))

	signinRec := httptest.NewRecorder()
	signinReq := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(signinRec, signinReq, &auth.SessionUser{ID: "user-1", Name: "Ann"}); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range signinRec.Result().Cookies() {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected a session user in context")
	}
	if got.Role != "admin" || !got.HasPermission("manage_events") {
		t.Errorf("expected refreshed admin user, got %+v", got)
	}
}
