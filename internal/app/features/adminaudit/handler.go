// internal/app/features/adminaudit/handler.go

// Package adminaudit exposes the audit trail to admins holding the
// manage_admins permission. Entries are written by the auditlog logger
// across auth, moderation, and admin actions; this feature is the read
// side.
package adminaudit

import (
	"github.com/wayfarehq/wayfare/internal/app/store/audit"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"go.uber.org/zap"
)

type Handler struct {
	Audit  *audit.Store
	ErrLog *httperr.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs the audit trail handler.
func NewHandler(store *audit.Store, errLog *httperr.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Audit: store, ErrLog: errLog, Log: logger}
}
