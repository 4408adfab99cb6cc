// internal/app/features/signup/handler.go

// Package signup registers new traveler, organizer, venue host, and doctor
// accounts. Admin accounts are never self-registered; they are created by
// another admin holding manage_admins.
package signup

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/wayfarehq/wayfare/internal/app/store/users"
	"github.com/wayfarehq/wayfare/internal/app/system/auditlog"
	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/app/system/authutil"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *httperr.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

// NewHandler constructs the signup feature handler.
func NewHandler(users *userstore.Store, sm *auth.SessionManager, errLog *httperr.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   audit,
		Log:        logger,
	}
}

type signupPayload struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleSignup handles POST /signup. On success the new account is signed
// in immediately.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var p signupPayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}

	role := strings.ToLower(strings.TrimSpace(p.Role))
	if !signupRole(role) {
		h.ErrLog.LogValidation(w, r, `role must be "traveler", "organizer", "venuehost", or "doctor"`)
		return
	}
	if !authutil.IsValidEmail(userstore.NormalizeEmail(p.Email)) {
		h.ErrLog.LogValidation(w, r, "a valid email address is required")
		return
	}
	if err := authutil.ValidatePassword(p.Password); err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}

	hash, err := authutil.HashPassword(p.Password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Unable to create the account.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		FullName:     p.FullName,
		Email:        p.Email,
		Phone:        p.Phone,
		PasswordHash: hash,
		AuthMethod:   "password",
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httperr.Validation(w, "An account with this email already exists.")
			return
		}
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}

	h.AuditLog.Signup(ctx, r, created.ID, created.Role, created.AuthMethod)

	su := &auth.SessionUser{
		ID:    created.ID.Hex(),
		Name:  created.FullName,
		Email: created.Email,
		Role:  created.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Warn("sign-in after signup failed", zap.Error(err))
	}

	httpjson.Created(w, created)
}

func signupRole(role string) bool {
	for _, sr := range models.SignupRoles {
		if role == sr {
			return true
		}
	}
	return false
}
