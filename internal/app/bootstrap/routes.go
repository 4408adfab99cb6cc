// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	adminauditfeature "github.com/wayfarehq/wayfare/internal/app/features/adminaudit"
	adminusersfeature "github.com/wayfarehq/wayfare/internal/app/features/adminusers"
	appointmentsfeature "github.com/wayfarehq/wayfare/internal/app/features/appointments"
	authgooglefeature "github.com/wayfarehq/wayfare/internal/app/features/authgoogle"
	bookingsfeature "github.com/wayfarehq/wayfare/internal/app/features/bookings"
	dashboardfeature "github.com/wayfarehq/wayfare/internal/app/features/dashboard"
	eventsfeature "github.com/wayfarehq/wayfare/internal/app/features/events"
	healthfeature "github.com/wayfarehq/wayfare/internal/app/features/health"
	loginfeature "github.com/wayfarehq/wayfare/internal/app/features/login"
	logoutfeature "github.com/wayfarehq/wayfare/internal/app/features/logout"
	moderationfeature "github.com/wayfarehq/wayfare/internal/app/features/moderation"
	profilefeature "github.com/wayfarehq/wayfare/internal/app/features/profile"
	signupfeature "github.com/wayfarehq/wayfare/internal/app/features/signup"
	venuesfeature "github.com/wayfarehq/wayfare/internal/app/features/venues"
	appointmentstore "github.com/wayfarehq/wayfare/internal/app/store/appointments"
	"github.com/wayfarehq/wayfare/internal/app/store/audit"
	bookingstore "github.com/wayfarehq/wayfare/internal/app/store/bookings"
	eventstore "github.com/wayfarehq/wayfare/internal/app/store/events"
	"github.com/wayfarehq/wayfare/internal/app/store/oauthstate"
	userstore "github.com/wayfarehq/wayfare/internal/app/store/users"
	venuestore "github.com/wayfarehq/wayfare/internal/app/store/venues"
	"github.com/wayfarehq/wayfare/internal/app/system/auditlog"
	"github.com/wayfarehq/wayfare/internal/app/system/auth"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// Wayfare builds the session manager, the stores, and the audit logger,
// then mounts one feature router per area of the API: auth (signup,
// login, logout, Google), listings (events, venues), moderation,
// bookings, appointments, the admin console, and profile.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser refetches the user on every request so role changes
	// and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	errLog := httperr.NewErrorLogger(logger)
	auditStore := audit.New(db)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:       appCfg.AuditLogAuth,
		Moderation: appCfg.AuditLogModeration,
		Admin:      appCfg.AuditLogAdmin,
	})

	users := userstore.New(db)
	events := eventstore.New(db)
	venues := venuestore.New(db)
	bookings := bookingstore.New(db)
	appointments := appointmentstore.New(db)
	oauthStates := oauthstate.New(db)

	r := chi.NewRouter()

	// Global auth middleware: loads the SessionUser into context if logged
	// in, making the current user available via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	signupHandler := signupfeature.NewHandler(users, sessionMgr, errLog, auditLog, logger)
	r.Mount("/signup", signupfeature.Routes(signupHandler))

	loginHandler := loginfeature.NewHandler(users, sessionMgr, errLog, auditLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(users, oauthStates, sessionMgr, errLog, auditLog,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, appCfg.SessionKey, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Listings
	eventsHandler := eventsfeature.NewHandler(events, errLog, auditLog, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

	venuesHandler := venuesfeature.NewHandler(venues, errLog, auditLog, logger)
	r.Mount("/venues", venuesfeature.Routes(venuesHandler, sessionMgr))

	// Moderation queue and decisions
	moderationHandler := moderationfeature.NewHandler(events, venues, errLog, auditLog, logger)
	r.Mount("/moderation", moderationfeature.Routes(moderationHandler, sessionMgr))

	// Bookings and medical appointments
	bookingsHandler := bookingsfeature.NewHandler(bookings, events, venues, errLog, logger)
	r.Mount("/bookings", bookingsfeature.Routes(bookingsHandler, sessionMgr))

	appointmentsHandler := appointmentsfeature.NewHandler(appointments, users, errLog, logger)
	r.Mount("/appointments", appointmentsfeature.Routes(appointmentsHandler, sessionMgr))

	// Admin console
	dashboardHandler := dashboardfeature.NewHandler(events, venues, bookings, users, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	adminUsersHandler := adminusersfeature.NewHandler(users, errLog, auditLog, logger)
	r.Mount("/admin/users", adminusersfeature.Routes(adminUsersHandler, sessionMgr))

	adminAuditHandler := adminauditfeature.NewHandler(auditStore, errLog, logger)
	r.Mount("/admin/audit", adminauditfeature.Routes(adminAuditHandler, sessionMgr))

	// Account self-service
	profileHandler := profilefeature.NewHandler(users, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	return r, nil
}
