// internal/app/features/appointments/routes.go
package appointments

import (
	"github.com/go-chi/chi/v5"
	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/domain/models"
)

// Routes mounts the appointments feature (typically at "/appointments"
// from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleTraveler))

		pr.Post("/", h.HandleCreate)
		pr.Get("/mine", h.ServeMine)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleDoctor))

		pr.Get("/doctor", h.ServeDoctor)
		pr.Post("/{id}/complete", h.HandleComplete)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleTraveler, models.RoleDoctor))

		pr.Post("/{id}/cancel", h.HandleCancel)
	})

	return r
}
