// internal/app/features/adminaudit/list.go
package adminaudit

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wayfarehq/wayfare/internal/app/store/audit"
	"github.com/wayfarehq/wayfare/internal/app/system/gates"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const pageSize = 50

type entryRow struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Category  string            `json:"category"`
	EventType string            `json:"event_type"`
	ActorID   string            `json:"actor_id,omitempty"`
	UserID    string            `json:"user_id,omitempty"`
	Resource  string            `json:"resource_id,omitempty"`
	IP        string            `json:"ip"`
	Success   bool              `json:"success"`
	Reason    string            `json:"failure_reason,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Entries []entryRow `json:"entries"`
	Total   int64      `json:"total"`
	Page    int        `json:"page"`
}

// ServeList handles GET /admin/audit.
//
// Query parameters: category, event_type, actor, user (hex IDs),
// start_date and end_date (YYYY-MM-DD, inclusive), page. Results come
// back newest first, fifty per page.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if _, ok := gates.RequirePermission(w, r, models.PermManageAdmins); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	q := r.URL.Query()
	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}
	switch filter.Category {
	case "", audit.CategoryAuth, audit.CategoryModeration, audit.CategoryAdmin:
	default:
		httperr.Validation(w, "Unknown audit category.")
		return
	}

	if actor := q.Get("actor"); actor != "" {
		id, err := primitive.ObjectIDFromHex(actor)
		if err != nil {
			httperr.Validation(w, "Invalid actor ID.")
			return
		}
		filter.ActorID = &id
	}
	if user := q.Get("user"); user != "" {
		id, err := primitive.ObjectIDFromHex(user)
		if err != nil {
			httperr.Validation(w, "Invalid user ID.")
			return
		}
		filter.UserID = &id
	}
	if start := q.Get("start_date"); start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			httperr.Validation(w, "start_date must be YYYY-MM-DD.")
			return
		}
		filter.StartTime = &t
	}
	if end := q.Get("end_date"); end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			httperr.Validation(w, "end_date must be YYYY-MM-DD.")
			return
		}
		endOfDay := t.Add(24*time.Hour - time.Second)
		filter.EndTime = &endOfDay
	}

	entries, err := h.Audit.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit query failed", err, "Unable to load the audit trail.")
		return
	}
	total, err := h.Audit.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit count failed", err, "Unable to load the audit trail.")
		return
	}

	rows := make([]entryRow, 0, len(entries))
	for _, e := range entries {
		row := entryRow{
			ID:        e.ID.Hex(),
			Timestamp: e.Timestamp,
			Category:  e.Category,
			EventType: e.EventType,
			IP:        e.IP,
			Success:   e.Success,
			Reason:    e.FailureReason,
			Details:   e.Details,
		}
		if e.ActorID != nil {
			row.ActorID = e.ActorID.Hex()
		}
		if e.UserID != nil {
			row.UserID = e.UserID.Hex()
		}
		if e.ResourceID != nil {
			row.Resource = e.ResourceID.Hex()
		}
		rows = append(rows, row)
	}

	httpjson.OK(w, listResponse{Entries: rows, Total: total, Page: page})
}
