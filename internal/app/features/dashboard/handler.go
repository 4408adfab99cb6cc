// internal/app/features/dashboard/handler.go

// Package dashboard serves the admin overview: moderation backlog counts
// and a combined listings view that is filtered and sorted in memory.
package dashboard

import (
	bookingstore "github.com/wayfarehq/wayfare/internal/app/store/bookings"
	eventstore "github.com/wayfarehq/wayfare/internal/app/store/events"
	userstore "github.com/wayfarehq/wayfare/internal/app/store/users"
	venuestore "github.com/wayfarehq/wayfare/internal/app/store/venues"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"go.uber.org/zap"
)

type Handler struct {
	Events   *eventstore.Store
	Venues   *venuestore.Store
	Bookings *bookingstore.Store
	Users    *userstore.Store
	ErrLog   *httperr.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(events *eventstore.Store, venues *venuestore.Store, bookings *bookingstore.Store, users *userstore.Store, errLog *httperr.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Events:   events,
		Venues:   venues,
		Bookings: bookings,
		Users:    users,
		ErrLog:   errLog,
		Log:      logger,
	}
}
