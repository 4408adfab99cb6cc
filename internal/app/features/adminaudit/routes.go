// internal/app/features/adminaudit/routes.go
package adminaudit

import (
	"github.com/go-chi/chi/v5"
	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/domain/models"
)

// Routes mounts the audit trail endpoints.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(models.RoleAdmin))

	r.Get("/", h.ServeList)
	return r
}
