// internal/app/features/dashboard/revenue.go
package dashboard

import (
	"context"
	"net/http"

	bookingstore "github.com/wayfarehq/wayfare/internal/app/store/bookings"
	"github.com/wayfarehq/wayfare/internal/app/system/gates"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
)

type revenueReport struct {
	Events     bookingstore.RevenueSummary `json:"events"`
	Venues     bookingstore.RevenueSummary `json:"venues"`
	TotalCents int64                       `json:"total_cents"`
}

// ServeRevenue handles GET /dashboard/revenue: confirmed booking revenue
// broken out by listing kind. Unlike the rest of the dashboard this
// requires the financial_access permission, not just the admin role.
func (h *Handler) ServeRevenue(w http.ResponseWriter, r *http.Request) {
	if _, ok := gates.RequirePermission(w, r, models.PermFinancialAccess); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Bookings.RevenueByKind(ctx, models.BookingKindEvent)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "event revenue aggregation failed", err, "Unable to load revenue.")
		return
	}
	venues, err := h.Bookings.RevenueByKind(ctx, models.BookingKindVenue)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "venue revenue aggregation failed", err, "Unable to load revenue.")
		return
	}

	httpjson.OK(w, revenueReport{
		Events:     events,
		Venues:     venues,
		TotalCents: events.RevenueCents + venues.RevenueCents,
	})
}
