// internal/app/features/moderation/handler.go

// Package moderation is the admin review surface for event and venue
// listings: the pending queue plus approve, reject, activate, and feature
// actions. Every route requires the admin role and the fine-grained
// permission for the listing kind; an admin without it gets 403 despite
// the role.
package moderation

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	eventstore "github.com/wayfarehq/wayfare/internal/app/store/events"
	venuestore "github.com/wayfarehq/wayfare/internal/app/store/venues"
	"github.com/wayfarehq/wayfare/internal/app/system/auditlog"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Events   *eventstore.Store
	Venues   *venuestore.Store
	ErrLog   *httperr.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs the moderation feature handler.
func NewHandler(events *eventstore.Store, venues *venuestore.Store, errLog *httperr.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Events:   events,
		Venues:   venues,
		ErrLog:   errLog,
		AuditLog: audit,
		Log:      logger,
	}
}

// decider is the moderation surface both listing stores share.
type decider interface {
	Approve(ctx context.Context, id primitive.ObjectID) error
	Reject(ctx context.Context, id primitive.ObjectID, reason string) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) error
}

// target binds a {kind} URL segment to its store, its audit identity, and
// the admin permission that gates it.
type target struct {
	kind  string // audit resource kind: "event" | "venue"
	perm  string
	store decider
	title func(ctx context.Context, id primitive.ObjectID) string
}

// resolveKind maps the {kind} route segment to a moderation target. The
// second return is false for unknown kinds (404: the queue does not exist).
func (h *Handler) resolveKind(r *http.Request) (target, bool) {
	switch chi.URLParam(r, "kind") {
	case "events":
		return target{
			kind:  "event",
			perm:  models.PermManageEvents,
			store: h.Events,
			title: func(ctx context.Context, id primitive.ObjectID) string {
				ev, err := h.Events.GetByID(ctx, id)
				if err != nil {
					return ""
				}
				return ev.Title
			},
		}, true
	case "venues":
		return target{
			kind:  "venue",
			perm:  models.PermManageVenues,
			store: h.Venues,
			title: func(ctx context.Context, id primitive.ObjectID) string {
				v, err := h.Venues.GetByID(ctx, id)
				if err != nil {
					return ""
				}
				return v.Name
			},
		}, true
	}
	return target{}, false
}
