// internal/app/features/moderation/decide.go
package moderation

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	modstore "github.com/wayfarehq/wayfare/internal/app/store/moderation"
	"github.com/wayfarehq/wayfare/internal/app/system/authz"
	"github.com/wayfarehq/wayfare/internal/app/system/gates"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type rejectPayload struct {
	Reason string `json:"reason"`
}

type activePayload struct {
	Active bool `json:"active"`
}

type featurePayload struct {
	Featured bool `json:"featured"`
}

type decisionResponse struct {
	Status string `json:"status"`
}

// HandleApprove handles POST /moderation/{kind}/{id}/approve.
//
// Approving anything but a pending listing is a conflict, never a silent
// overwrite: two admins racing to decide the same item cannot both win.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	t, viewer, id, ok := h.decisionTarget(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := t.store.Approve(ctx, id); err != nil {
		h.writeDecisionErr(w, r, err, "approve "+t.kind)
		return
	}
	h.AuditLog.ListingApproved(ctx, r, viewer.ID, id, t.kind, t.title(ctx, id))
	httpjson.OK(w, decisionResponse{Status: "approved"})
}

// HandleReject handles POST /moderation/{kind}/{id}/reject. The reason is
// mandatory; a blank one fails validation with no state change.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	t, viewer, id, ok := h.decisionTarget(w, r)
	if !ok {
		return
	}

	var p rejectPayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := t.store.Reject(ctx, id, p.Reason); err != nil {
		h.writeDecisionErr(w, r, err, "reject "+t.kind)
		return
	}
	h.AuditLog.ListingRejected(ctx, r, viewer.ID, id, t.kind, t.title(ctx, id), p.Reason)
	httpjson.OK(w, decisionResponse{Status: "rejected"})
}

// HandleSetActive handles POST /moderation/{kind}/{id}/active: hides or
// shows a listing without touching its approval state.
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	t, viewer, id, ok := h.decisionTarget(w, r)
	if !ok {
		return
	}

	var p activePayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := t.store.SetActive(ctx, id, p.Active); err != nil {
		h.writeDecisionErr(w, r, err, "toggle "+t.kind)
		return
	}
	h.AuditLog.ListingActiveToggled(ctx, r, viewer.ID, id, t.kind, p.Active)
	status := "deactivated"
	if p.Active {
		status = "activated"
	}
	httpjson.OK(w, decisionResponse{Status: status})
}

// HandleSetFeatured handles POST /moderation/{kind}/{id}/feature:
// promotional ordering flag, orthogonal to approval.
func (h *Handler) HandleSetFeatured(w http.ResponseWriter, r *http.Request) {
	t, viewer, id, ok := h.decisionTarget(w, r)
	if !ok {
		return
	}

	var p featurePayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := t.store.SetFeatured(ctx, id, p.Featured); err != nil {
		h.writeDecisionErr(w, r, err, "feature "+t.kind)
		return
	}
	h.AuditLog.ListingFeaturedToggled(ctx, r, viewer.ID, id, t.kind, p.Featured)
	status := "unfeatured"
	if p.Featured {
		status = "featured"
	}
	httpjson.OK(w, decisionResponse{Status: status})
}

// decisionTarget resolves the kind, checks the admin permission for it,
// and parses the {id} segment.
func (h *Handler) decisionTarget(w http.ResponseWriter, r *http.Request) (target, authz.Viewer, primitive.ObjectID, bool) {
	t, known := h.resolveKind(r)
	if !known {
		httperr.NotFound(w, "")
		return target{}, authz.Viewer{}, primitive.NilObjectID, false
	}
	viewer, ok := gates.RequirePermission(w, r, t.perm)
	if !ok {
		return target{}, authz.Viewer{}, primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.NotFound(w, "")
		return target{}, authz.Viewer{}, primitive.NilObjectID, false
	}
	return t, viewer, id, true
}

// writeDecisionErr maps moderation store errors onto the HTTP surface.
func (h *Handler) writeDecisionErr(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, modstore.ErrNotFound):
		httperr.NotFound(w, "")
	case errors.Is(err, modstore.ErrNotPending):
		httperr.InvalidState(w, "This listing has already been reviewed.")
	case errors.Is(err, modstore.ErrEmptyReason):
		httperr.Validation(w, "A rejection reason is required.")
	default:
		h.ErrLog.LogServerError(w, r, op+" failed", err, "Unable to apply the decision.")
	}
}
