// internal/app/features/profile/handler.go

// Package profile lets a signed-in user view and edit their own account:
// name and phone, plus password changes for password-authenticated
// accounts. Email and role are fixed after signup.
package profile

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/wayfarehq/wayfare/internal/app/store/users"
	"github.com/wayfarehq/wayfare/internal/app/system/authutil"
	"github.com/wayfarehq/wayfare/internal/app/system/gates"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users  *userstore.Store
	ErrLog *httperr.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(users *userstore.Store, errLog *httperr.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, ErrLog: errLog, Log: logger}
}

type updatePayload struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type passwordPayload struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ServeProfile handles GET /profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, viewer.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httperr.NotFound(w, "")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get profile failed", err, "Unable to load your profile.")
		return
	}
	httpjson.OK(w, u)
}

// HandleUpdate handles PUT /profile: updates name and phone.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	var p updatePayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, "Request body must be valid JSON.")
		return
	}
	if strings.TrimSpace(p.FullName) == "" {
		httperr.Validation(w, "A full name is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	upd := userstore.ProfileUpdate{FullName: p.FullName, Phone: p.Phone}
	if err := h.Users.UpdateProfile(ctx, viewer.ID, upd); err != nil {
		h.ErrLog.LogServerError(w, r, "update profile failed", err, "Unable to update your profile.")
		return
	}

	u, err := h.Users.GetByID(ctx, viewer.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload profile failed", err, "Unable to load your profile.")
		return
	}
	httpjson.OK(w, u)
}

// HandleChangePassword handles PUT /profile/password. Google-only
// accounts have no password to change.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	var p passwordPayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, "Request body must be valid JSON.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, viewer.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httperr.NotFound(w, "")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get profile failed", err, "Unable to load your profile.")
		return
	}
	if u.PasswordHash == "" {
		httperr.InvalidState(w, "This account signs in with Google and has no password.")
		return
	}
	if !authutil.CheckPassword(p.CurrentPassword, u.PasswordHash) {
		httperr.Forbidden(w, "Current password is incorrect.")
		return
	}
	if err := authutil.ValidatePassword(p.NewPassword); err != nil {
		httperr.Validation(w, err.Error())
		return
	}

	hash, err := authutil.HashPassword(p.NewPassword)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Unable to change your password.")
		return
	}
	if err := h.Users.SetPasswordHash(ctx, viewer.ID, hash); err != nil {
		h.ErrLog.LogServerError(w, r, "set password failed", err, "Unable to change your password.")
		return
	}
	h.Log.Info("password changed", zap.String("user_id", viewer.ID.Hex()))

	httpjson.OK(w, map[string]bool{"changed": true})
}
