// internal/app/features/bookings/handler.go

// Package bookings lets travelers reserve spots on publicly visible events
// and venues. A booking can only ever be created against a listing that is
// approved and active; the listing's confirmed-booking counter moves with
// the booking's lifecycle.
package bookings

import (
	bookingstore "github.com/wayfarehq/wayfare/internal/app/store/bookings"
	eventstore "github.com/wayfarehq/wayfare/internal/app/store/events"
	venuestore "github.com/wayfarehq/wayfare/internal/app/store/venues"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"go.uber.org/zap"
)

type Handler struct {
	Bookings *bookingstore.Store
	Events   *eventstore.Store
	Venues   *venuestore.Store
	ErrLog   *httperr.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs the bookings feature handler.
func NewHandler(bookings *bookingstore.Store, events *eventstore.Store, venues *venuestore.Store, errLog *httperr.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Bookings: bookings,
		Events:   events,
		Venues:   venues,
		ErrLog:   errLog,
		Log:      logger,
	}
}
