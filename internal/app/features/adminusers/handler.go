// internal/app/features/adminusers/handler.go

// Package adminusers is the admin console for accounts: listing users,
// disabling or re-enabling them, creating new admins, and editing an
// admin's fine-grained permissions.
//
// Route middleware restricts the whole subtree to signed-in admins;
// each handler then checks the specific permission it needs. Account
// listing and status changes need manage_users; anything touching admin
// accounts themselves needs manage_admins.
package adminusers

import (
	userstore "github.com/wayfarehq/wayfare/internal/app/store/users"
	"github.com/wayfarehq/wayfare/internal/app/system/auditlog"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	ErrLog   *httperr.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, errLog *httperr.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, ErrLog: errLog, AuditLog: audit, Log: logger}
}
