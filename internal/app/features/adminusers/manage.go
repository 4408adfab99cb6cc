// internal/app/features/adminusers/manage.go
package adminusers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	userstore "github.com/wayfarehq/wayfare/internal/app/store/users"
	"github.com/wayfarehq/wayfare/internal/app/system/authutil"
	"github.com/wayfarehq/wayfare/internal/app/system/gates"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type statusPayload struct {
	Disabled bool `json:"disabled"`
}

type permissionsPayload struct {
	Permissions []string `json:"permissions"`
}

type createAdminPayload struct {
	FullName    string   `json:"full_name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Permissions []string `json:"permissions"`
}

// HandleSetStatus handles POST /admin/users/{id}/status: disables or
// re-enables an account. Requires manage_users; disabling another admin
// additionally requires manage_admins. Admins cannot disable themselves,
// so the platform always keeps at least one working admin session.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequirePermission(w, r, models.PermManageUsers)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.NotFound(w, "")
		return
	}
	if id == viewer.ID {
		httperr.InvalidState(w, "You cannot disable your own account.")
		return
	}

	var p statusPayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, "Request body must be valid JSON.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httperr.NotFound(w, "")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get user failed", err, "Unable to load the user.")
		return
	}
	if target.Role == models.RoleAdmin && !viewer.HasPermission(models.PermManageAdmins) {
		httperr.Forbidden(w, "Changing an admin account requires the manage_admins permission.")
		return
	}

	status := models.StatusActive
	if p.Disabled {
		status = models.StatusDisabled
	}
	if err := h.Users.SetStatus(ctx, id, status); err != nil {
		h.ErrLog.LogServerError(w, r, "set user status failed", err, "Unable to update the account.")
		return
	}
	h.AuditLog.UserStatusChanged(ctx, r, viewer.ID, id, p.Disabled)
	h.Log.Info("user status changed",
		zap.String("user_id", id.Hex()),
		zap.String("status", status),
		zap.String("actor_id", viewer.ID.Hex()))

	httpjson.OK(w, map[string]string{"status": status})
}

// HandleSetPermissions handles PUT /admin/users/{id}/permissions.
// Requires manage_admins; the target must be an admin account.
func (h *Handler) HandleSetPermissions(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequirePermission(w, r, models.PermManageAdmins)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.NotFound(w, "")
		return
	}

	var p permissionsPayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, "Request body must be valid JSON.")
		return
	}
	for _, perm := range p.Permissions {
		if !models.IsValidPermission(perm) {
			httperr.Validation(w, "Unknown permission: "+perm)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// SetPermissions only matches admin accounts, so a non-admin target
	// reports not found just like a missing one.
	if err := h.Users.SetPermissions(ctx, id, p.Permissions); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.NotFound(w, "")
			return
		}
		h.ErrLog.LogServerError(w, r, "set permissions failed", err, "Unable to update permissions.")
		return
	}
	h.AuditLog.PermissionsChanged(ctx, r, viewer.ID, id, p.Permissions)

	httpjson.OK(w, map[string][]string{"permissions": p.Permissions})
}

// HandleCreateAdmin handles POST /admin/users: creates a new admin
// account with an initial permission set. Requires manage_admins.
func (h *Handler) HandleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequirePermission(w, r, models.PermManageAdmins)
	if !ok {
		return
	}

	var p createAdminPayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, "Request body must be valid JSON.")
		return
	}
	if strings.TrimSpace(p.FullName) == "" {
		httperr.Validation(w, "A full name is required.")
		return
	}
	if !authutil.IsValidEmail(userstore.NormalizeEmail(p.Email)) {
		httperr.Validation(w, "A valid email address is required.")
		return
	}
	if err := authutil.ValidatePassword(p.Password); err != nil {
		httperr.Validation(w, err.Error())
		return
	}
	for _, perm := range p.Permissions {
		if !models.IsValidPermission(perm) {
			httperr.Validation(w, "Unknown permission: "+perm)
			return
		}
	}

	hash, err := authutil.HashPassword(p.Password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Unable to create the account.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		FullName:     p.FullName,
		Email:        p.Email,
		PasswordHash: hash,
		AuthMethod:   "password",
		Role:         models.RoleAdmin,
		Permissions:  p.Permissions,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httperr.Validation(w, "An account with this email already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "create admin failed", err, "Unable to create the account.")
		return
	}
	h.AuditLog.AdminCreated(ctx, r, viewer.ID, created.ID, p.Permissions)
	h.Log.Info("admin account created",
		zap.String("admin_id", created.ID.Hex()),
		zap.String("actor_id", viewer.ID.Hex()))

	httpjson.Created(w, created)
}
