// internal/app/features/moderation/routes.go
package moderation

import (
	"github.com/go-chi/chi/v5"
	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/domain/models"
)

// Routes mounts the moderation surface (typically at "/moderation" from
// bootstrap). The role check lives here; the per-kind permission check
// lives in the handlers, since it depends on the {kind} segment.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Get("/{kind}", h.ServeQueue)
		pr.Post("/{kind}/{id}/approve", h.HandleApprove)
		pr.Post("/{kind}/{id}/reject", h.HandleReject)
		pr.Post("/{kind}/{id}/active", h.HandleSetActive)
		pr.Post("/{kind}/{id}/feature", h.HandleSetFeatured)
	})

	return r
}
