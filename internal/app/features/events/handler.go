// internal/app/features/events/handler.go
package events

import (
	eventstore "github.com/wayfarehq/wayfare/internal/app/store/events"
	"github.com/wayfarehq/wayfare/internal/app/system/auditlog"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"go.uber.org/zap"
)

type Handler struct {
	Events   *eventstore.Store
	ErrLog   *httperr.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs the events feature handler.
func NewHandler(events *eventstore.Store, errLog *httperr.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Events:   events,
		ErrLog:   errLog,
		AuditLog: audit,
		Log:      logger,
	}
}
