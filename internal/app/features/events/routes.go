// internal/app/features/events/routes.go
package events

import (
	"github.com/go-chi/chi/v5"
	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/domain/models"
)

// Routes mounts the events feature (typically at "/events" from bootstrap).
// List and detail are public; everything else is organizer-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleOrganizer))

		pr.Get("/mine", h.ServeMine)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Post("/{id}/active", h.HandleSetActive)
		pr.Delete("/{id}", h.HandleDelete)
	})

	r.Get("/{id}", h.ServeGet)

	return r
}
