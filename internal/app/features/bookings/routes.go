// internal/app/features/bookings/routes.go
package bookings

import (
	"github.com/go-chi/chi/v5"
	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/domain/models"
)

// Routes mounts the bookings feature (typically at "/bookings" from
// bootstrap). Creating and cancelling is traveler-only; the per-resource
// view is for listing owners and admins, checked in the handler.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleTraveler))

		pr.Post("/", h.HandleCreate)
		pr.Get("/mine", h.ServeMine)
		pr.Post("/{id}/cancel", h.HandleCancel)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleOrganizer, models.RoleVenueHost, models.RoleAdmin))

		pr.Get("/for/{kind}/{id}", h.ServeForResource)
	})

	return r
}
