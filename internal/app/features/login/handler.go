// internal/app/features/login/handler.go

// Package login authenticates password accounts and issues the session
// cookie. Failed attempts are rate limited per IP and per email and every
// outcome is audited; the caller only ever learns "invalid email or
// password" so accounts cannot be enumerated.
package login

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/wayfarehq/wayfare/internal/app/store/users"
	"github.com/wayfarehq/wayfare/internal/app/system/auditlog"
	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/app/system/authutil"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/ratelimit"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const invalidCredentials = "Invalid email or password."

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *httperr.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

// NewHandler constructs the login feature handler with its own login
// limiter.
func NewHandler(users *userstore.Store, sm *auth.SessionManager, errLog *httperr.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    ratelimit.NewLoginLimiter(),
		Log:        logger,
	}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID          string   `json:"id"`
	FullName    string   `json:"full_name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var p loginPayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}

	email := userstore.NormalizeEmail(p.Email)
	if allowed, reason := h.Limiter.Check(r, email); !allowed {
		httperr.Forbidden(w, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
		httperr.Unauthenticated(w, invalidCredentials)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find user for login failed", err, "Unable to sign in right now.")
		return
	}

	if u.Status == models.StatusDisabled {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, email)
		httperr.Forbidden(w, "Your account is disabled. Contact support.")
		return
	}

	// Google-only accounts have no password hash; the check below fails for
	// them the same way a wrong password does.
	if u.PasswordHash == "" || !authutil.CheckPassword(p.Password, u.PasswordHash) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, email)
		httperr.Unauthenticated(w, invalidCredentials)
		return
	}

	h.Limiter.ResetEmail(email)

	su := &auth.SessionUser{
		ID:          u.ID.Hex(),
		Name:        u.FullName,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: u.Permissions,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "sign-in failed", err, "Unable to sign in right now.")
		return
	}

	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.AuthMethod, email)

	httpjson.OK(w, loginResponse{
		ID:          su.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: u.Permissions,
	})
}
