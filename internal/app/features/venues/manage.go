// internal/app/features/venues/manage.go
package venues

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wayfarehq/wayfare/internal/app/policy/venuepolicy"
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

// venuePayload is the request body for create and update.
type venuePayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	City        string `json:"city"`
	Address     string `json:"address"`
	PriceCents  int64  `json:"price_cents"`
}

func (p venuePayload) toModel(base models.Venue) models.Venue {
	v := base
	v.Name = p.Name
	v.Description = p.Description
	v.Kind = p.Kind
	v.City = p.City
	v.Address = p.Address
	v.PriceCents = p.PriceCents
	return v
}

// ServeMine handles GET /venues/mine: the host's own venues in every
// approval state, newest first.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	rows, err := h.Venues.Find(ctx, bson.M{"host_id": viewer.ID}, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find own venues failed", err, "Unable to load your venues.")
		return
	}
	httpjson.OK(w, rows)
}

// HandleCreate handles POST /venues. New venues always start pending.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	var p venuePayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Venues.Create(ctx, p.toModel(models.Venue{HostID: viewer.ID}))
	if err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}
	httpjson.Created(w, created)
}

// HandleUpdate handles PUT /venues/{id}. Owner only; approval state is
// never touched by an edit.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	v, ok := h.ownedVenue(w, r)
	if !ok {
		return
	}

	var p venuePayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Venues.Update(ctx, v.ID, p.toModel(models.Venue{})); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.NotFound(w, "")
			return
		}
		h.ErrLog.LogServerError(w, r, "update venue failed", err, "Unable to update the venue.")
		return
	}

	updated, err := h.Venues.GetByID(ctx, v.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload venue failed", err, "Unable to load the venue.")
		return
	}
	httpjson.OK(w, updated)
}

// activePayload is the request body for the owner-side active toggle.
type activePayload struct {
	Active bool `json:"active"`
}

// HandleSetActive handles POST /venues/{id}/active: the owning host pulls
// the venue from public view or restores it without touching the approval
// state.
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	v, ok := h.ownedVenue(w, r)
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

	if err := h.Venues.SetActive(ctx, v.ID, p.Active); err != nil {
		h.ErrLog.LogServerError(w, r, "toggle venue failed", err, "Unable to update the venue.")
		return
	}
	h.AuditLog.ListingActiveToggled(ctx, r, viewer.ID, v.ID, "venues", p.Active)

	updated, err := h.Venues.GetByID(ctx, v.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload venue failed", err, "Unable to load the venue.")
		return
	}
	httpjson.OK(w, updated)
}

// HandleDelete handles DELETE /venues/{id}: hard delete, owner only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	v, ok := h.ownedVenue(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Venues.Delete(ctx, v.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete venue failed", err, "Unable to delete the venue.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedVenue loads the {id} venue and enforces ownership. Callers who may
// not view the venue get 404, not 403.
func (h *Handler) ownedVenue(w http.ResponseWriter, r *http.Request) (models.Venue, bool) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return models.Venue{}, false
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.NotFound(w, "")
		return models.Venue{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	v, err := h.Venues.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httperr.NotFound(w, "")
		return models.Venue{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get venue failed", err, "Unable to load the venue.")
		return models.Venue{}, false
	}
	if !venuepolicy.CanEdit(viewer, v) {
		if !venuepolicy.CanView(viewer, v) {
			httperr.NotFound(w, "")
		} else {
			httperr.Forbidden(w, "Only the host who created this venue can change it.")
		}
		return models.Venue{}, false
	}
	return v, true
}
