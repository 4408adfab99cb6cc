// internal/app/features/adminusers/list.go
package adminusers

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/wayfarehq/wayfare/internal/app/system/gates"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/paging"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServeList handles GET /admin/users. Optional query params: q (name
// prefix search), role, status, after/before (keyset cursors over
// full_name_ci). Requires the manage_users permission.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if _, ok := gates.RequirePermission(w, r, models.PermManageUsers); !ok {
		return
	}

	after := query.Get(r, "after")
	before := query.Get(r, "before")

	clauses := []bson.M{}
	if role := query.Get(r, "role"); role != "" {
		if !models.IsValidRole(role) {
			httperr.Validation(w, "Unknown role.")
			return
		}
		clauses = append(clauses, bson.M{"role": role})
	}
	if status := query.Get(r, "status"); status != "" {
		if status != models.StatusActive && status != models.StatusDisabled {
			httperr.Validation(w, "Status must be active or disabled.")
			return
		}
		clauses = append(clauses, bson.M{"status": status})
	}
	if lo, hi := text.PrefixRange(query.Search(r, "q")); lo != "" {
		clauses = append(clauses, bson.M{
			"full_name_ci": bson.M{"$gte": lo, "$lt": hi},
		})
	}

	const sortField = "full_name_ci"
	find := options.Find()
	cfg := paging.ConfigureKeyset(before, after)
	cfg.ApplyToFind(find, sortField)
	if ks := cfg.KeysetWindow(sortField); ks != nil {
		clauses = append(clauses, ks)
	}

	filter := bson.M{}
	switch len(clauses) {
	case 0:
	case 1:
		filter = clauses[0]
	default:
		filter = bson.M{"$and": clauses}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Users.Find(ctx, filter, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find users failed", err, "Unable to load users.")
		return
	}
	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}
	res := paging.TrimPage(&rows, before, after)
	prev, next := paging.BuildCursors(rows,
		func(u models.User) string { return u.FullNameCI },
		func(u models.User) primitive.ObjectID { return u.ID })

	httpjson.OK(w, paging.NewPage(rows, res, prev, next))
}
