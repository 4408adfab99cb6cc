// internal/app/features/events/manage.go
package events

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wayfarehq/wayfare/internal/app/policy/eventpolicy"
	"github.com/wayfarehq/wayfare/internal/app/system/authz"
	"github.com/wayfarehq/wayfare/internal/app/system/gates"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// eventPayload is the request body for create and update.
type eventPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	City        string    `json:"city"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	PriceCents  int64     `json:"price_cents"`
	Capacity    int       `json:"capacity"`
}

func (p eventPayload) toModel(base models.Event) models.Event {
	ev := base
	ev.Title = p.Title
	ev.Description = p.Description
	ev.Category = p.Category
	ev.City = p.City
	ev.Venue = p.Venue
	ev.StartsAt = p.StartsAt
	ev.EndsAt = p.EndsAt
	ev.PriceCents = p.PriceCents
	ev.Capacity = p.Capacity
	return ev
}

// ServeMine handles GET /events/mine: the organizer's own events in every
// approval state, newest first.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	rows, err := h.Events.Find(ctx, bson.M{"organizer_id": viewer.ID}, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find own events failed", err, "Unable to load your events.")
		return
	}
	httpjson.OK(w, rows)
}

// HandleCreate handles POST /events. The new event always starts pending
// review regardless of what the payload claims.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	var p eventPayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev := p.toModel(models.Event{OrganizerID: viewer.ID})
	created, err := h.Events.Create(ctx, ev)
	if err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}
	httpjson.Created(w, created)
}

// HandleUpdate handles PUT /events/{id}. Only the owning organizer may
// edit; edits never change the approval state.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}

	var p eventPayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Events.Update(ctx, ev.ID, p.toModel(models.Event{})); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.NotFound(w, "")
			return
		}
		h.ErrLog.LogServerError(w, r, "update event failed", err, "Unable to update the event.")
		return
	}

	updated, err := h.Events.GetByID(ctx, ev.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload event failed", err, "Unable to load the event.")
		return
	}
	httpjson.OK(w, updated)
}

// activePayload is the request body for the owner-side active toggle.
type activePayload struct {
	Active bool `json:"active"`
}

// HandleSetActive handles POST /events/{id}/active: the owning organizer
// pulls the event from public view or restores it. The approval state is
// untouched, so a re-activated approved event is public again at once.
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}
	viewer := authz.ViewerCtx(r)

	var p activePayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Events.SetActive(ctx, ev.ID, p.Active); err != nil {
		h.ErrLog.LogServerError(w, r, "toggle event failed", err, "Unable to update the event.")
		return
	}
	h.AuditLog.ListingActiveToggled(ctx, r, viewer.ID, ev.ID, "events", p.Active)

	updated, err := h.Events.GetByID(ctx, ev.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload event failed", err, "Unable to load the event.")
		return
	}
	httpjson.OK(w, updated)
}

// HandleDelete handles DELETE /events/{id}: a hard delete, owner only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Events.Delete(ctx, ev.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete event failed", err, "Unable to delete the event.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedEvent loads the {id} event and enforces the ownership rules shared
// by update and delete. A caller who may not even view the event gets 404,
// never 403, so existence is not leaked.
func (h *Handler) ownedEvent(w http.ResponseWriter, r *http.Request) (models.Event, bool) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return models.Event{}, false
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.NotFound(w, "")
		return models.Event{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httperr.NotFound(w, "")
		return models.Event{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get event failed", err, "Unable to load the event.")
		return models.Event{}, false
	}
	if !eventpolicy.CanEdit(viewer, ev) {
		if !eventpolicy.CanView(viewer, ev) {
			httperr.NotFound(w, "")
		} else {
			httperr.Forbidden(w, "Only the organizer who created this event can change it.")
		}
		return models.Event{}, false
	}
	return ev, true
}
