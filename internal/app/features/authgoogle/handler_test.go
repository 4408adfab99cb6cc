package authgoogle_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wayfarehq/wayfare/internal/app/features/authgoogle"
	"github.com/wayfarehq/wayfare/internal/app/store/audit"
	"github.com/wayfarehq/wayfare/internal/app/store/oauthstate"
	userstore "github.com/wayfarehq/wayfare/internal/app/store/users"
	"github.com/wayfarehq/wayfare/internal/app/system/auditlog"
	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *authgoogle.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(
		"0123456789abcdef0123456789abcdef", "wayfare_test", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return authgoogle.NewHandler(userstore.New(db), oauthstate.New(db), sm,
		httperr.NewErrorLogger(logger),
		auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "db"}),
		"client-id", "client-secret", "https://wayfare.test",
		"0123456789abcdef0123456789abcdef", logger)
}

func TestServeLogin_RedirectsToGoogleConsent(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google", nil))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307: %s", rec.Code, rec.Header().Get("Location"))
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "accounts.google.com") {
		t.Errorf("redirect target = %q, want Google consent screen", loc)
	}
	if !strings.Contains(loc, "state=") {
		t.Errorf("redirect %q carries no state", loc)
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "wayfare_oauth_state" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("no signed state cookie set")
	}
}

func TestServeLogin_UnconfiguredRedirectsToLogin(t *testing.T) {
	h := newTestHandler(t)
	h.ClientID = ""
	h.ClientSecret = ""

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=google_not_configured") {
		t.Errorf("redirect = %q", loc)
	}
}

func TestServeCallback_MissingStateCookieRejected(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/auth/google/callback?state=forged&code=abc", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=invalid_state") {
		t.Errorf("redirect = %q, want invalid_state error", loc)
	}
}

func TestServeCallback_ProviderErrorRedirects(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest("GET", "/auth/google/callback?error=access_denied", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=google_denied") {
		t.Errorf("redirect = %q, want google_denied error", loc)
	}
}
