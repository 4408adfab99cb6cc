// internal/app/features/dashboard/summary.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/wayfarehq/wayfare/internal/app/system/gates"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

type summary struct {
	PendingEvents     int64 `json:"pending_events"`
	PendingVenues     int64 `json:"pending_venues"`
	ApprovedEvents    int64 `json:"approved_events"`
	ApprovedVenues    int64 `json:"approved_venues"`
	Users             int64 `json:"users"`
	ConfirmedBookings int64 `json:"confirmed_bookings"`
}

// ServeSummary handles GET /dashboard: the moderation backlog plus a few
// platform-wide totals. Any admin may view it regardless of permissions.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := gates.RequireAnyRole(w, r, models.RoleAdmin); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		s       summary
		pending = bson.M{"approval_status": models.ApprovalPending}
		appr    = bson.M{"approval_status": models.ApprovalApproved}
		err     error
	)
	counts := []struct {
		dst   *int64
		count func(context.Context, bson.M) (int64, error)
		q     bson.M
	}{
		{&s.PendingEvents, h.Events.Count, pending},
		{&s.PendingVenues, h.Venues.Count, pending},
		{&s.ApprovedEvents, h.Events.Count, appr},
		{&s.ApprovedVenues, h.Venues.Count, appr},
		{&s.Users, h.Users.Count, bson.M{}},
		{&s.ConfirmedBookings, h.Bookings.Count, bson.M{"status": models.BookingConfirmed}},
	}
	for _, c := range counts {
		if *c.dst, err = c.count(ctx, c.q); err != nil {
			h.ErrLog.LogServerError(w, r, "dashboard count failed", err, "Unable to load the dashboard.")
			return
		}
	}

	httpjson.OK(w, s)
}
