// internal/app/features/logout/handler.go

// Package logout destroys the caller's session cookie.
package logout

import (
	"net/http"

	"github.com/wayfarehq/wayfare/internal/app/system/auditlog"
	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"go.uber.org/zap"
)

type Handler struct {
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

// NewHandler constructs the logout feature handler.
func NewHandler(sm *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{SessionMgr: sm, AuditLog: audit, Log: logger}
}

type logoutResponse struct {
	SignedOut bool `json:"signed_out"`
}

// HandleLogout handles POST /logout. Signing out an anonymous caller is a
// no-op success: the end state is the same either way.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Logout(r.Context(), r, u.ID)
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("session destroy failed", zap.Error(err))
	}
	httpjson.OK(w, logoutResponse{SignedOut: true})
}
