// internal/app/features/bookings/forresource.go
package bookings

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"github.com/wayfarehq/wayfare/internal/app/system/gates"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeForResource handles GET /bookings/for/{kind}/{id}: every booking
// made against one event or venue, for the listing's owner or an admin.
// Optional ?status=confirmed|cancelled narrows the result.
func (h *Handler) ServeForResource(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	kind := chi.URLParam(r, "kind")
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.NotFound(w, "")
		return
	}

	status := query.Get(r, "status")
	if status != "" && status != models.BookingConfirmed && status != models.BookingCancelled {
		h.ErrLog.LogValidation(w, r, `status must be "confirmed" or "cancelled"`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	owner, err := h.resourceOwner(ctx, kind, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httperr.NotFound(w, "")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load resource for bookings failed", err, "Unable to load bookings.")
		return
	}
	if !viewer.IsAdmin() && !viewer.Owns(owner) {
		// Non-owners cannot learn whether the listing takes bookings.
		httperr.NotFound(w, "")
		return
	}

	rows, err := h.Bookings.ByResource(ctx, id, status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find resource bookings failed", err, "Unable to load bookings.")
		return
	}
	httpjson.OK(w, rows)
}

// resourceOwner resolves the owning user of the {kind}/{id} listing.
func (h *Handler) resourceOwner(ctx context.Context, kind string, id primitive.ObjectID) (primitive.ObjectID, error) {
	switch kind {
	case models.BookingKindEvent:
		ev, err := h.Events.GetByID(ctx, id)
		if err != nil {
			return primitive.NilObjectID, err
		}
		return ev.OrganizerID, nil
	case models.BookingKindVenue:
		v, err := h.Venues.GetByID(ctx, id)
		if err != nil {
			return primitive.NilObjectID, err
		}
		return v.HostID, nil
	}
	return primitive.NilObjectID, mongo.ErrNoDocuments
}
