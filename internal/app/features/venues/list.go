// internal/app/features/venues/list.go
package venues

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/wayfarehq/wayfare/internal/app/policy/venuepolicy"
	"github.com/wayfarehq/wayfare/internal/app/system/authz"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/paging"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServeList handles GET /venues.
//
// Same visibility contract as events: the public sees approved, active
// venues; hosts additionally see their own in any state; admins see all.
// Optional query params: q (name prefix search), city, kind
// (hotel|restaurant|gem), after/before keyset cursors over name_ci.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	viewer := authz.ViewerCtx(r)

	q := query.Search(r, "q")
	after := query.Get(r, "after")
	before := query.Get(r, "before")

	scope := bson.M{}
	if city := query.Get(r, "city"); city != "" {
		scope["city_ci"] = text.Fold(city)
	}
	if kind := query.Get(r, "kind"); kind != "" {
		if !models.IsValidVenueKind(kind) {
			h.ErrLog.LogValidation(w, r, `kind must be "hotel", "restaurant", or "gem"`)
			return
		}
		scope["kind"] = kind
	}

	clauses := []bson.M{venuepolicy.ListFilter(viewer, scope)}
	if lo, hi := text.PrefixRange(q); lo != "" {
		clauses = append(clauses, bson.M{
			"name_ci": bson.M{"$gte": lo, "$lt": hi},
		})
	}

	const sortField = "name_ci"
	find := options.Find()
	cfg := paging.ConfigureKeyset(before, after)
	cfg.ApplyToFind(find, sortField)
	if ks := cfg.KeysetWindow(sortField); ks != nil {
		clauses = append(clauses, ks)
	}

	filter := clauses[0]
	if len(clauses) > 1 {
		filter = bson.M{"$and": clauses}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Venues.Find(ctx, filter, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find venues failed", err, "Unable to load venues.")
		return
	}
	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}
	res := paging.TrimPage(&rows, before, after)
	prev, next := paging.BuildCursors(rows,
		func(v models.Venue) string { return v.NameCI },
		func(v models.Venue) primitive.ObjectID { return v.ID })

	httpjson.OK(w, paging.NewPage(rows, res, prev, next))
}

// ServeGet handles GET /venues/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	viewer := authz.ViewerCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.NotFound(w, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	v, err := h.Venues.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httperr.NotFound(w, "")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get venue failed", err, "Unable to load the venue.")
		return
	}
	if !venuepolicy.CanView(viewer, v) {
		httperr.NotFound(w, "")
		return
	}

	httpjson.OK(w, v)
}
