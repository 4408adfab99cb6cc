// internal/app/features/venues/handler.go
package venues

import (
	venuestore "github.com/wayfarehq/wayfare/internal/app/store/venues"
	"github.com/wayfarehq/wayfare/internal/app/system/auditlog"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"go.uber.org/zap"
)

type Handler struct {
	Venues   *venuestore.Store
	ErrLog   *httperr.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs the venues feature handler.
func NewHandler(venues *venuestore.Store, errLog *httperr.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Venues:   venues,
		ErrLog:   errLog,
		AuditLog: audit,
		Log:      logger,
	}
}
