// internal/app/features/moderation/queue.go
package moderation

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/wayfarehq/wayfare/internal/app/system/gates"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServeQueue handles GET /moderation/{kind}: the review queue, oldest
// submissions first so nothing waits forever. By default it returns pending
// listings; ?status=approved|rejected|pending shows any slice of the
// moderation history.
func (h *Handler) ServeQueue(w http.ResponseWriter, r *http.Request) {
	t, known := h.resolveKind(r)
	if !known {
		httperr.NotFound(w, "")
		return
	}
	if _, ok := gates.RequirePermission(w, r, t.perm); !ok {
		return
	}

	status := query.Get(r, "status")
	if status == "" {
		status = models.ApprovalPending
	}
	if !models.IsValidApprovalStatus(status) {
		h.ErrLog.LogValidation(w, r, `status must be "pending", "approved", or "rejected"`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := bson.M{"approval_status": status}
	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	switch t.kind {
	case "event":
		rows, err := h.Events.Find(ctx, filter, find)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load event queue failed", err, "Unable to load the review queue.")
			return
		}
		httpjson.OK(w, rows)
	case "venue":
		rows, err := h.Venues.Find(ctx, filter, find)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load venue queue failed", err, "Unable to load the review queue.")
			return
		}
		httpjson.OK(w, rows)
	}
}
