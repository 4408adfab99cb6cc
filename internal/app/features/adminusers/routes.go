// internal/app/features/adminusers/routes.go
package adminusers

import (
	"github.com/go-chi/chi/v5"
	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/domain/models"
)

// Routes mounts the admin account-management endpoints. The whole
// subtree requires an admin session; per-permission checks happen in
// the handlers.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(models.RoleAdmin))

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreateAdmin)
	r.Post("/{id}/status", h.HandleSetStatus)
	r.Put("/{id}/permissions", h.HandleSetPermissions)
	return r
}
