// internal/app/features/appointments/handler.go

// Package appointments books medical consultations between travelers and
// doctors. Appointments are private to the two parties; they never pass
// through moderation and never appear in any public listing.
package appointments

import (
	appointmentstore "github.com/wayfarehq/wayfare/internal/app/store/appointments"
	userstore "github.com/wayfarehq/wayfare/internal/app/store/users"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"go.uber.org/zap"
)

type Handler struct {
	Appointments *appointmentstore.Store
	Users        *userstore.Store
	ErrLog       *httperr.ErrorLogger
	Log          *zap.Logger
}

// NewHandler constructs the appointments feature handler.
func NewHandler(appts *appointmentstore.Store, users *userstore.Store, errLog *httperr.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Appointments: appts,
		Users:        users,
		ErrLog:       errLog,
		Log:          logger,
	}
}
