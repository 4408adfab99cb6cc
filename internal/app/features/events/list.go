// internal/app/features/events/list.go
package events

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/wayfarehq/wayfare/internal/app/policy/eventpolicy"
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

// ServeList handles GET /events.
//
// Anonymous and traveler callers see only approved, active events; an
// organizer additionally sees their own events in any state; admins see
// everything. Optional query params: q (title prefix search), city,
// category (scope filters that only narrow the result), after/before
// (keyset cursors over title_ci).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	viewer := authz.ViewerCtx(r)

	q := query.Search(r, "q")
	after := query.Get(r, "after")
	before := query.Get(r, "before")

	scope := bson.M{}
	if city := query.Get(r, "city"); city != "" {
		scope["city_ci"] = text.Fold(city)
	}
	if cat := query.Get(r, "category"); cat != "" {
		scope["category"] = cat
	}

	clauses := []bson.M{eventpolicy.ListFilter(viewer, scope)}
	if lo, hi := text.PrefixRange(q); lo != "" {
		clauses = append(clauses, bson.M{
			"title_ci": bson.M{"$gte": lo, "$lt": hi},
		})
	}

	const sortField = "title_ci"
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

	rows, err := h.Events.Find(ctx, filter, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find events failed", err, "Unable to load events.")
		return
	}
	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}
	res := paging.TrimPage(&rows, before, after)
	prev, next := paging.BuildCursors(rows,
		func(e models.Event) string { return e.TitleCI },
		func(e models.Event) primitive.ObjectID { return e.ID })

	httpjson.OK(w, paging.NewPage(rows, res, prev, next))
}

// ServeGet handles GET /events/{id}.
//
// An event outside the caller's visibility reports not found, the same as
// a genuinely missing one.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	viewer := authz.ViewerCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.NotFound(w, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httperr.NotFound(w, "")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get event failed", err, "Unable to load the event.")
		return
	}
	if !eventpolicy.CanView(viewer, ev) {
		httperr.NotFound(w, "")
		return
	}

	httpjson.OK(w, ev)
}
