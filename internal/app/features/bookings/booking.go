// internal/app/features/bookings/booking.go
package bookings

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	bookingstore "github.com/wayfarehq/wayfare/internal/app/store/bookings"
	eventstore "github.com/wayfarehq/wayfare/internal/app/store/events"
	"github.com/wayfarehq/wayfare/internal/app/system/gates"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createPayload struct {
	Kind       string `json:"kind"` // event | venue
	ResourceID string `json:"resource_id"`
	Guests     int    `json:"guests"`
}

// HandleCreate handles POST /bookings.
//
// The target listing must be publicly visible; anything pending, rejected,
// or deactivated reads as not found, exactly as it would on GET. A full
// event (capacity reached) is a conflict the traveler can see.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	var p createPayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}
	resourceID, err := primitive.ObjectIDFromHex(p.ResourceID)
	if err != nil {
		h.ErrLog.LogValidation(w, r, "resource_id is not a valid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	switch p.Kind {
	case models.BookingKindEvent:
		ev, err := h.Events.GetByID(ctx, resourceID)
		if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && !ev.PubliclyVisible()) {
			httperr.NotFound(w, "")
			return
		}
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load event for booking failed", err, "Unable to create the booking.")
			return
		}
	case models.BookingKindVenue:
		v, err := h.Venues.GetByID(ctx, resourceID)
		if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && !v.PubliclyVisible()) {
			httperr.NotFound(w, "")
			return
		}
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load venue for booking failed", err, "Unable to create the booking.")
			return
		}
	default:
		h.ErrLog.LogValidation(w, r, `kind must be "event" or "venue"`)
		return
	}

	// The counter moves first. For events the increment only matches while
	// the event has room, so the seat is held before the booking exists and
	// concurrent requests cannot overshoot the capacity.
	if err := h.bumpCounter(ctx, p.Kind, resourceID, 1); err != nil {
		if errors.Is(err, eventstore.ErrEventFull) {
			httperr.InvalidState(w, "This event is fully booked.")
			return
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.NotFound(w, "")
			return
		}
		h.ErrLog.LogServerError(w, r, "booking counter increment failed", err, "Unable to create the booking.")
		return
	}

	created, err := h.Bookings.Create(ctx, models.Booking{
		Kind:       p.Kind,
		ResourceID: resourceID,
		TravelerID: viewer.ID,
		Guests:     p.Guests,
	})
	if err != nil {
		if relErr := h.bumpCounter(ctx, p.Kind, resourceID, -1); relErr != nil {
			h.Log.Warn("booking counter release failed",
				zap.String("kind", p.Kind), zap.Error(relErr))
		}
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}

	httpjson.Created(w, created)
}

// ServeMine handles GET /bookings/mine: the traveler's bookings, newest
// first.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Bookings.ByTraveler(ctx, viewer.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find own bookings failed", err, "Unable to load your bookings.")
		return
	}
	httpjson.OK(w, rows)
}

// HandleCancel handles POST /bookings/{id}/cancel. Only the traveler who
// made the booking may cancel it, and only once.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.NotFound(w, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httperr.NotFound(w, "")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get booking failed", err, "Unable to load the booking.")
		return
	}
	if b.TravelerID != viewer.ID {
		// Someone else's booking is invisible to this caller.
		httperr.NotFound(w, "")
		return
	}

	if err := h.Bookings.Cancel(ctx, id); err != nil {
		if errors.Is(err, bookingstore.ErrAlreadyCancelled) {
			httperr.InvalidState(w, "This booking is already cancelled.")
			return
		}
		h.ErrLog.LogServerError(w, r, "cancel booking failed", err, "Unable to cancel the booking.")
		return
	}

	if err := h.bumpCounter(ctx, b.Kind, b.ResourceID, -1); err != nil {
		h.Log.Warn("booking counter decrement failed",
			zap.String("kind", b.Kind), zap.Error(err))
	}

	httpjson.OK(w, decisionResponse{Status: models.BookingCancelled})
}

type decisionResponse struct {
	Status string `json:"status"`
}

func (h *Handler) bumpCounter(ctx context.Context, kind string, resourceID primitive.ObjectID, delta int64) error {
	if kind == models.BookingKindEvent {
		return h.Events.IncrementBookings(ctx, resourceID, delta)
	}
	return h.Venues.IncrementBookings(ctx, resourceID, delta)
}
