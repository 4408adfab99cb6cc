// internal/app/features/dashboard/listings.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/wayfarehq/wayfare/internal/app/system/gates"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/listview"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// listingRow is one row of the combined events-plus-venues admin view.
type listingRow struct {
	Kind           string             `json:"kind"` // event | venue
	ID             primitive.ObjectID `json:"id"`
	Title          string             `json:"title"`
	City           string             `json:"city"`
	ApprovalStatus string             `json:"approval_status"`
	Active         bool               `json:"active"`
	Featured       bool               `json:"featured"`
	Bookings       int64              `json:"bookings"`
	CreatedAt      time.Time          `json:"created_at"`
}

// Most recent listings the combined view will consider. The view is for
// triage, not archaeology; older rows are reachable through the
// moderation queues.
const listingsWindow = 500

func listingSortKeys() map[listview.SortKey]bool {
	return map[listview.SortKey]bool{
		listview.SortRecent:       true,
		listview.SortOldest:       true,
		listview.SortNameAsc:      true,
		listview.SortNameDesc:     true,
		listview.SortBookingsDesc: true,
	}
}

// ServeListings handles GET /dashboard/listings: every event and venue in
// one table, searched and ordered in memory. Query params: q (substring
// match on title and city), sort (recent, oldest, name-asc, name-desc,
// bookings-desc; default recent).
func (h *Handler) ServeListings(w http.ResponseWriter, r *http.Request) {
	if _, ok := gates.RequireAnyRole(w, r, models.RoleAdmin); !ok {
		return
	}

	sortKey := listview.SortKey(query.Get(r, "sort"))
	if sortKey == "" {
		sortKey = listview.SortRecent
	}
	if !listingSortKeys()[sortKey] {
		httperr.Validation(w, "Unknown sort key.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	find := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(listingsWindow)

	events, err := h.Events.Find(ctx, bson.M{}, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find events failed", err, "Unable to load listings.")
		return
	}
	venues, err := h.Venues.Find(ctx, bson.M{}, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find venues failed", err, "Unable to load listings.")
		return
	}

	rows := make([]listingRow, 0, len(events)+len(venues))
	for _, e := range events {
		rows = append(rows, listingRow{
			Kind:           "event",
			ID:             e.ID,
			Title:          e.Title,
			City:           e.City,
			ApprovalStatus: e.ApprovalStatus,
			Active:         e.Active,
			Featured:       e.Featured,
			Bookings:       e.Bookings,
			CreatedAt:      e.CreatedAt,
		})
	}
	for _, v := range venues {
		rows = append(rows, listingRow{
			Kind:           "venue",
			ID:             v.ID,
			Title:          v.Name,
			City:           v.City,
			ApprovalStatus: v.ApprovalStatus,
			Active:         v.Active,
			Featured:       v.Featured,
			Bookings:       v.Bookings,
			CreatedAt:      v.CreatedAt,
		})
	}

	rows = listview.FilterAndSort(rows, query.Search(r, "q"), sortKey, listview.Accessors[listingRow]{
		SearchFields: func(l listingRow) []string { return []string{l.Title, l.City} },
		Name:         func(l listingRow) string { return l.Title },
		Date:         func(l listingRow) time.Time { return l.CreatedAt },
		Bookings:     func(l listingRow) int64 { return l.Bookings },
	})

	httpjson.OK(w, map[string][]listingRow{"listings": rows})
}
