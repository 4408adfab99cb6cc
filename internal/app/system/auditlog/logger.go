// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strings"

	"github.com/wayfarehq/wayfare/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (signup, login, logout).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Moderation controls logging for listing moderation events (approve, reject, toggles).
	// Values: "all", "db", "log", "off"
	Moderation string
	// Admin controls logging for admin account actions (disable user, grant permissions).
	// Values: "all", "db", "log", "off"
	Admin string
}

// Logger provides convenience methods for recording audit entries.
// It writes to MongoDB (via audit.Store) and structured logs (via zap).
// Failures to persist an entry are logged and never surfaced to the
// request that triggered them.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (for reverse proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	// Fall back to RemoteAddr
	return r.RemoteAddr
}

// logToZap logs the entry to zap with consistent structure.
func (l *Logger) logToZap(entry audit.Entry) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", entry.Category),
		zap.String("event_type", entry.EventType),
		zap.Bool("success", entry.Success),
		zap.String("ip", entry.IP),
	}

	if entry.ActorID != nil {
		fields = append(fields, zap.String("actor_id", entry.ActorID.Hex()))
	}
	if entry.UserID != nil {
		fields = append(fields, zap.String("user_id", entry.UserID.Hex()))
	}
	if entry.ResourceID != nil {
		fields = append(fields, zap.String("resource_id", entry.ResourceID.Hex()))
	}
	if entry.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", entry.FailureReason))
	}
	for k, v := range entry.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if entry.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit entry based on configuration.
// If the logger is nil, this is a no-op (allows tests to use a nil audit logger).
// Logging destination is controlled per category: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, entry audit.Entry) {
	if l == nil {
		return
	}

	var setting string
	switch entry.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryModeration:
		setting = l.config.Moderation
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all" // Default to logging everything for unknown categories
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(entry)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, entry); err != nil {
			l.zapLog.Error("failed to store audit entry",
				zap.Error(err),
				zap.String("event_type", entry.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// Signup logs a new account registration.
func (l *Logger) Signup(ctx context.Context, r *http.Request, userID primitive.ObjectID, role, authMethod string) {
	l.Log(ctx, audit.Entry{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignup,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"role":        role,
			"auth_method": authMethod,
		},
	})
}

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, authMethod, email string) {
	l.Log(ctx, audit.Entry{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"auth_method": authMethod,
			"email":       email,
		},
	})
}

// LoginFailedUserNotFound logs a failed login for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, audit.Entry{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user not found",
		Details: map[string]string{
			"attempted_email": attemptedEmail,
		},
	})
}

// LoginFailedWrongPassword logs a failed login due to wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Entry{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong password",
		Details: map[string]string{
			"email": email,
		},
	})
}

// LoginFailedUserDisabled logs a failed login due to a disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Entry{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserDisabled,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user disabled",
		Details: map[string]string{
			"email": email,
		},
	})
}

// GoogleSignIn logs a successful Google OAuth sign-in.
func (l *Logger) GoogleSignIn(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string, newAccount bool) {
	details := map[string]string{"email": email}
	if newAccount {
		details["new_account"] = "true"
	}
	l.Log(ctx, audit.Entry{
		Category:  audit.CategoryAuth,
		EventType: audit.EventGoogleSignIn,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	})
}

// Logout logs a user logout. Accepts the string ID from the session
// and converts it to an ObjectID.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	var userID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		userID = &oid
	}

	l.Log(ctx, audit.Entry{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Moderation Events ---

// ListingApproved logs a moderator approving an event or venue listing.
// resourceKind is "event" or "venue".
func (l *Logger) ListingApproved(ctx context.Context, r *http.Request, actorID, resourceID primitive.ObjectID, resourceKind, title string) {
	l.Log(ctx, audit.Entry{
		Category:   audit.CategoryModeration,
		EventType:  moderationEventType(resourceKind, "approved"),
		ActorID:    &actorID,
		ResourceID: &resourceID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details: map[string]string{
			"title": title,
		},
	})
}

// ListingRejected logs a moderator rejecting an event or venue listing.
func (l *Logger) ListingRejected(ctx context.Context, r *http.Request, actorID, resourceID primitive.ObjectID, resourceKind, title, reason string) {
	l.Log(ctx, audit.Entry{
		Category:   audit.CategoryModeration,
		EventType:  moderationEventType(resourceKind, "rejected"),
		ActorID:    &actorID,
		ResourceID: &resourceID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details: map[string]string{
			"title":  title,
			"reason": reason,
		},
	})
}

// ListingActiveToggled logs an active/inactive toggle on a listing.
func (l *Logger) ListingActiveToggled(ctx context.Context, r *http.Request, actorID, resourceID primitive.ObjectID, resourceKind string, active bool) {
	state := "deactivated"
	if active {
		state = "activated"
	}
	l.Log(ctx, audit.Entry{
		Category:   audit.CategoryModeration,
		EventType:  moderationEventType(resourceKind, state),
		ActorID:    &actorID,
		ResourceID: &resourceID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
	})
}

// ListingFeaturedToggled logs a featured toggle on a listing.
func (l *Logger) ListingFeaturedToggled(ctx context.Context, r *http.Request, actorID, resourceID primitive.ObjectID, resourceKind string, featured bool) {
	state := "unfeatured"
	if featured {
		state = "featured"
	}
	l.Log(ctx, audit.Entry{
		Category:   audit.CategoryModeration,
		EventType:  moderationEventType(resourceKind, state),
		ActorID:    &actorID,
		ResourceID: &resourceID,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
	})
}

func moderationEventType(resourceKind, action string) string {
	return strings.ToLower(resourceKind) + "_" + action
}

// --- Admin Events ---

// UserStatusChanged logs an admin enabling or disabling a user account.
func (l *Logger) UserStatusChanged(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, disabled bool) {
	eventType := audit.EventUserEnabled
	if disabled {
		eventType = audit.EventUserDisabled
	}
	l.Log(ctx, audit.Entry{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   &actorID,
		UserID:    &targetUserID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// PermissionsChanged logs an admin updating another admin's permissions.
func (l *Logger) PermissionsChanged(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, permissions []string) {
	l.Log(ctx, audit.Entry{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventPermissionsChanged,
		ActorID:   &actorID,
		UserID:    &targetUserID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"permissions": strings.Join(permissions, ","),
		},
	})
}

// AdminCreated logs an admin creating another admin account.
func (l *Logger) AdminCreated(ctx context.Context, r *http.Request, actorID, newAdminID primitive.ObjectID, permissions []string) {
	l.Log(ctx, audit.Entry{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAdminCreated,
		ActorID:   &actorID,
		UserID:    &newAdminID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"permissions": strings.Join(permissions, ","),
		},
	})
}
