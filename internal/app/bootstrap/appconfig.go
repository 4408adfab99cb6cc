// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and request body limits. AppConfig is
// everything specific to Wayfare: the Mongo connection, session cookies,
// Google OAuth credentials, audit logging modes, and the root admin
// bootstrap.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: wayfare-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // How long a session cookie stays valid

	// Base URL for OAuth callbacks and links in responses
	BaseURL string // e.g., "https://wayfare.example" or "http://localhost:3000"

	// Google OAuth configuration. The sign-in routes return
	// google_not_configured when either value is blank.
	GoogleClientID     string
	GoogleClientSecret string

	// Audit logging modes per category: "all" (db+log), "db", "log", or "off".
	AuditLogAuth       string
	AuditLogModeration string
	AuditLogAdmin      string

	// RootAdminEmail names the account promoted to (or created as) an admin
	// with every permission on startup, so a fresh deployment is never
	// locked out of the admin console.
	RootAdminEmail string
}
