// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.RootAdminEmail != "" {
		if err := ensureRootAdmin(ctx, deps, appCfg.RootAdminEmail, logger); err != nil {
			return fmt.Errorf("ensure root admin: %w", err)
		}
	}
	return nil
}

// ensureRootAdmin guarantees that the configured email belongs to an active
// admin holding every permission. An existing account is promoted in place;
// a missing one is created as a Google-auth account (no password) so the
// operator signs in through Google with that address.
//
// The update runs directly on the users collection because promotion may
// start from any role, which the store-level permission methods refuse.
func ensureRootAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	emailCI := text.Fold(strings.TrimSpace(email))
	if emailCI == "" {
		return nil
	}
	users := deps.MongoDatabase.Collection("users")
	now := time.Now().UTC()

	var existing models.User
	err := users.FindOne(ctx, bson.M{"email_ci": emailCI}).Decode(&existing)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin && existing.Status == models.StatusActive &&
			hasAllPermissions(existing.Permissions) {
			return nil
		}
		_, err = users.UpdateByID(ctx, existing.ID, bson.M{"$set": bson.M{
			"role":        models.RoleAdmin,
			"status":      models.StatusActive,
			"permissions": models.Permissions,
			"updated_at":  now,
		}})
		if err != nil {
			return err
		}
		logger.Info("promoted root admin",
			zap.String("email", emailCI),
			zap.String("previous_role", existing.Role))
		return nil

	case err == mongo.ErrNoDocuments:
		_, err = users.InsertOne(ctx, models.User{
			ID:          primitive.NewObjectID(),
			FullName:    "Root Admin",
			FullNameCI:  text.Fold("Root Admin"),
			Email:       emailCI,
			EmailCI:     emailCI,
			AuthMethod:  "google",
			Role:        models.RoleAdmin,
			Status:      models.StatusActive,
			Permissions: models.Permissions,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}
		logger.Info("created root admin", zap.String("email", emailCI))
		return nil

	default:
		return err
	}
}

func hasAllPermissions(perms []string) bool {
	for _, want := range models.Permissions {
		found := false
		for _, p := range perms {
			if p == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
